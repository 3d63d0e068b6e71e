package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/careops-au/ndis-ops-api/internal/middleware"
	"github.com/careops-au/ndis-ops-api/internal/models"
)

func testContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, rec
}

func TestClaimsFromContextMissing(t *testing.T) {
	c, _ := testContext(t, "/shifts")
	assert.Nil(t, claimsFromContext(c))

	c.Set(middleware.ContextUserKey, "not-claims")
	assert.Nil(t, claimsFromContext(c))
}

func TestStaffIDForCaller(t *testing.T) {
	c, _ := testContext(t, "/offers")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:  "u1",
		StaffID: "s1",
		Role:    models.RoleSupportWorker,
	})
	assert.Equal(t, "s1", staffIDForCaller(c))
}

func TestStaffIDForCallerCoordinator(t *testing.T) {
	c, _ := testContext(t, "/offers?staffId=s2")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: "u2",
		Role:   models.RoleCoordinator,
	})
	// Coordinators pass an explicit staffId query instead.
	assert.Equal(t, "", staffIDForCaller(c))
}

func TestQueryInt(t *testing.T) {
	c, _ := testContext(t, "/staff?page=3&pageSize=abc")
	assert.Equal(t, 3, queryInt(c, "page", 1))
	assert.Equal(t, 20, queryInt(c, "pageSize", 20))
	assert.Equal(t, 20, queryInt(c, "missing", 20))
}

func TestQueryDate(t *testing.T) {
	c, _ := testContext(t, "/shifts?dateFrom=2026-03-10&dateTo=10-03-2026")

	from, ok := queryDate(c, "dateFrom")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), from)

	_, ok = queryDate(c, "dateTo")
	assert.False(t, ok)

	_, ok = queryDate(c, "missing")
	assert.False(t, ok)
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, ".csv", fileExt("payruns/pr1/payslips.csv"))
	assert.Equal(t, ".pdf", fileExt("payslips.pdf"))
	assert.Equal(t, "", fileExt("payruns/pr1/payslips"))
}

func TestHealthHandler(t *testing.T) {
	c, rec := testContext(t, "/health")
	NewMetricsHandler(nil).Health(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
