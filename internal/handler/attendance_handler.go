package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/service"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
	"github.com/careops-au/ndis-ops-api/pkg/response"
)

// AttendanceHandler exposes clock-in/clock-out and geo-fence override review.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// ClockIn godoc
// @Summary Clock in to a shift
// @Description A position outside the participant geo-fence flags the record for review but never blocks
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param payload body models.ClockInRequest true "Reported position"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /shifts/{id}/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	staffID := staffIDForCaller(c)
	if staffID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only the assigned support worker can clock in"))
		return
	}

	var req models.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clock-in payload"))
		return
	}

	att, err := h.service.ClockIn(c.Request.Context(), c.Param("id"), staffID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, att, nil)
}

// ClockOut godoc
// @Summary Clock out of a shift
// @Description Completes the shift and writes the categorised timesheet entry
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param payload body models.ClockOutRequest true "Position and progress notes"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /shifts/{id}/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	staffID := staffIDForCaller(c)
	if staffID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only the assigned support worker can clock out"))
		return
	}

	var req models.ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clock-out payload"))
		return
	}

	att, err := h.service.ClockOut(c.Request.Context(), c.Param("id"), staffID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, att, nil)
}

// Overrides godoc
// @Summary List attendance records flagged for review
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/overrides [get]
func (h *AttendanceHandler) Overrides(c *gin.Context) {
	records, err := h.service.ListOverrides(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ApproveOverride godoc
// @Summary Approve a geo-fence override
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 204 {object} response.Envelope
// @Router /attendance/overrides/{id}/approve [post]
func (h *AttendanceHandler) ApproveOverride(c *gin.Context) {
	if err := h.service.ApproveOverride(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
