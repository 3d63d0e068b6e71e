package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type mockStaffReader struct {
	staff map[string]*models.Staff
}

func (m *mockStaffReader) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockRateRepo struct {
	rates map[string]*models.AwardRate
	calls int
}

func (m *mockRateRepo) FindActiveRate(ctx context.Context, level string, employmentType models.EmploymentType, asOf time.Time) (*models.AwardRate, error) {
	m.calls++
	if r, ok := m.rates[level+":"+string(employmentType)]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

// memCacheRepo is an in-memory CacheRepository used to exercise the cache path
// without redis.
type memCacheRepo struct {
	entries map[string][]byte
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = make(map[string][]byte)
	return nil
}

func newTestCache() *CacheService {
	return NewCacheService(&memCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Code
}

func testCasualStaff(id string) *models.Staff {
	return &models.Staff{
		ID:             id,
		FirstName:      "Amy",
		LastName:       "Nguyen",
		Email:          "amy@example.com",
		EmploymentType: models.EmploymentCasual,
		AwardLevel:     "2.1",
		Active:         true,
	}
}

func TestPayrollServiceResolveRateCaches(t *testing.T) {
	rates := &mockRateRepo{rates: map[string]*models.AwardRate{
		"2.1:casual": {ID: "r1", Level: "2.1", EmploymentType: models.EmploymentCasual, BaseHourlyRate: decimal.RequireFromString("32.50")},
	}}
	svc := NewPayrollService(&mockStaffReader{}, rates, newTestCache(), nil, validator.New(), zap.NewNop(), time.Minute)

	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	first, err := svc.ResolveRate(context.Background(), "2.1", models.EmploymentCasual, asOf)
	require.NoError(t, err)
	assert.True(t, first.BaseHourlyRate.Equal(decimal.RequireFromString("32.50")))
	assert.Equal(t, 1, rates.calls)

	second, err := svc.ResolveRate(context.Background(), "2.1", models.EmploymentCasual, asOf)
	require.NoError(t, err)
	assert.True(t, second.BaseHourlyRate.Equal(first.BaseHourlyRate))
	assert.Equal(t, 1, rates.calls, "second lookup should be served from cache")
}

func TestPayrollServiceResolveRateMissing(t *testing.T) {
	svc := NewPayrollService(&mockStaffReader{}, &mockRateRepo{}, newTestCache(), nil, validator.New(), zap.NewNop(), time.Minute)

	_, err := svc.ResolveRate(context.Background(), "9.9", models.EmploymentCasual, time.Now())
	assert.Equal(t, appErrors.ErrRateNotFound.Code, errCode(t, err))
}

func TestPayrollServiceCalculateStaffPay(t *testing.T) {
	staff := &mockStaffReader{staff: map[string]*models.Staff{"s1": testCasualStaff("s1")}}
	rates := &mockRateRepo{rates: map[string]*models.AwardRate{
		"2.1:casual": {ID: "r1", Level: "2.1", EmploymentType: models.EmploymentCasual, BaseHourlyRate: decimal.RequireFromString("32.50")},
	}}
	svc := NewPayrollService(staff, rates, newTestCache(), nil, validator.New(), zap.NewNop(), time.Minute)

	breakdown, err := svc.CalculateStaffPay(context.Background(), "s1", models.PayCalculationRequest{
		PayPeriodStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Hours:          models.HoursBreakdown{Ordinary: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Amy Nguyen", breakdown.StaffName)
	// 10h x 32.50 x 1.25 casual loading
	assert.True(t, breakdown.GrossPay.Equal(decimal.RequireFromString("406.25")), "got %s", breakdown.GrossPay)
	assert.True(t, breakdown.NetPay.Equal(breakdown.GrossPay.Sub(breakdown.Tax)))
}

func TestPayrollServiceCalculateStaffPayUnknownStaff(t *testing.T) {
	svc := NewPayrollService(&mockStaffReader{}, &mockRateRepo{}, newTestCache(), nil, validator.New(), zap.NewNop(), time.Minute)

	_, err := svc.CalculateStaffPay(context.Background(), "missing", models.PayCalculationRequest{
		PayPeriodStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(t, err))
}

func TestPayrollServiceCalculateStaffPayPeriodOrder(t *testing.T) {
	staff := &mockStaffReader{staff: map[string]*models.Staff{"s1": testCasualStaff("s1")}}
	svc := NewPayrollService(staff, &mockRateRepo{}, newTestCache(), nil, validator.New(), zap.NewNop(), time.Minute)

	_, err := svc.CalculateStaffPay(context.Background(), "s1", models.PayCalculationRequest{
		PayPeriodStart: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
}
