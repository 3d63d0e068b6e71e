package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/service"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
	"github.com/careops-au/ndis-ops-api/pkg/response"
)

// ShiftHandler exposes the roster plus the allocation workflow on top of it.
type ShiftHandler struct {
	shifts     *service.ShiftService
	allocation *service.AllocationService
}

// NewShiftHandler creates a new handler.
func NewShiftHandler(shifts *service.ShiftService, allocation *service.AllocationService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, allocation: allocation}
}

// List godoc
// @Summary List shifts
// @Tags Shifts
// @Produce json
// @Param participantId query string false "Participant filter"
// @Param staffId query string false "Assigned staff filter"
// @Param status query string false "Status filter"
// @Param dateFrom query string false "From date (YYYY-MM-DD)"
// @Param dateTo query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	filter := models.ShiftFilter{
		ParticipantID: c.Query("participantId"),
		StaffID:       c.Query("staffId"),
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "pageSize", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ShiftStatus(raw)
		filter.Status = &status
	}
	if from, ok := queryDate(c, "dateFrom"); ok {
		filter.DateFrom = &from
	}
	if to, ok := queryDate(c, "dateTo"); ok {
		filter.DateTo = &to
	}

	shifts, pagination, err := h.shifts.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, pagination)
}

// Get godoc
// @Summary Get shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shifts/{id} [get]
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.shifts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}

// Create godoc
// @Summary Schedule a shift
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body models.Shift true "Shift payload"
// @Success 201 {object} response.Envelope
// @Router /shifts [post]
func (h *ShiftHandler) Create(c *gin.Context) {
	var shift models.Shift
	if err := c.ShouldBindJSON(&shift); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid shift payload"))
		return
	}
	if err := h.shifts.Create(c.Request.Context(), &shift); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, shift)
}

// Update godoc
// @Summary Update shift scheduling details
// @Tags Shifts
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param payload body models.Shift true "Shift payload"
// @Success 200 {object} response.Envelope
// @Router /shifts/{id} [put]
func (h *ShiftHandler) Update(c *gin.Context) {
	var shift models.Shift
	if err := c.ShouldBindJSON(&shift); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid shift payload"))
		return
	}
	shift.ID = c.Param("id")
	if err := h.shifts.Update(c.Request.Context(), &shift); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}

// Cancel godoc
// @Summary Cancel a shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /shifts/{id} [delete]
func (h *ShiftHandler) Cancel(c *gin.Context) {
	if err := h.shifts.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Allocate godoc
// @Summary Run staff allocation for a shift
// @Description Scores every available candidate and sends offers to the top-ranked staff
// @Tags Allocation
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /shifts/{id}/allocate [post]
func (h *ShiftHandler) Allocate(c *gin.Context) {
	result, err := h.allocation.AllocateShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Scores godoc
// @Summary Get allocation scores for a shift
// @Tags Allocation
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.Envelope
// @Router /shifts/{id}/scores [get]
func (h *ShiftHandler) Scores(c *gin.Context) {
	scores, err := h.allocation.GetShiftScores(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// Offers godoc
// @Summary Get the offer cascade for a shift
// @Tags Allocation
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.Envelope
// @Router /shifts/{id}/offers [get]
func (h *ShiftHandler) Offers(c *gin.Context) {
	offers, err := h.allocation.GetShiftOffers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offers, nil)
}

// MyOffers godoc
// @Summary List the caller's open offers
// @Tags Allocation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /offers [get]
func (h *ShiftHandler) MyOffers(c *gin.Context) {
	staffID := staffIDForCaller(c)
	if staffID == "" {
		staffID = c.Query("staffId")
	}
	if staffID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "staffId is required"))
		return
	}
	offers, err := h.allocation.GetStaffOffers(c.Request.Context(), staffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offers, nil)
}

// RespondToOffer godoc
// @Summary Accept or decline an offer
// @Description An accept atomically confirms the shift; losers of the race get a conflict
// @Tags Allocation
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param payload body object true "accept flag and optional decline_reason"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /offers/{id}/respond [post]
func (h *ShiftHandler) RespondToOffer(c *gin.Context) {
	var payload struct {
		Accept        bool    `json:"accept"`
		DeclineReason *string `json:"decline_reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	offer, err := h.allocation.RespondToOffer(c.Request.Context(), c.Param("id"), staffIDForCaller(c), payload.Accept, payload.DeclineReason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offer, nil)
}

// SubmitUnavailability godoc
// @Summary Submit an unavailability window
// @Tags Unavailability
// @Accept json
// @Produce json
// @Param payload body models.StaffUnavailability true "Window payload"
// @Success 201 {object} response.Envelope
// @Router /unavailability [post]
func (h *ShiftHandler) SubmitUnavailability(c *gin.Context) {
	var window models.StaffUnavailability
	if err := c.ShouldBindJSON(&window); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid unavailability payload"))
		return
	}
	if staffID := staffIDForCaller(c); staffID != "" {
		window.StaffID = staffID
	}
	if err := h.shifts.SubmitUnavailability(c.Request.Context(), &window); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// ListUnavailability godoc
// @Summary List a staff member's unavailability windows
// @Tags Unavailability
// @Produce json
// @Param staffId query string false "Staff ID (coordinators only)"
// @Success 200 {object} response.Envelope
// @Router /unavailability [get]
func (h *ShiftHandler) ListUnavailability(c *gin.Context) {
	staffID := staffIDForCaller(c)
	if staffID == "" {
		staffID = c.Query("staffId")
	}
	if staffID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "staffId is required"))
		return
	}
	windows, err := h.shifts.ListUnavailability(c.Request.Context(), staffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// PendingUnavailability godoc
// @Summary List unavailability windows awaiting review
// @Tags Unavailability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /unavailability/pending [get]
func (h *ShiftHandler) PendingUnavailability(c *gin.Context) {
	windows, err := h.shifts.ListPendingUnavailability(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// DecideUnavailability godoc
// @Summary Approve or reject a pending window
// @Tags Unavailability
// @Accept json
// @Produce json
// @Param id path string true "Window ID"
// @Param payload body object true "approve flag"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /unavailability/{id}/decide [post]
func (h *ShiftHandler) DecideUnavailability(c *gin.Context) {
	var payload struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	if err := h.shifts.DecideUnavailability(c.Request.Context(), c.Param("id"), payload.Approve); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
