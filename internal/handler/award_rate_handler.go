package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/service"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
	"github.com/careops-au/ndis-ops-api/pkg/response"
)

// AwardRateHandler manages the effective-dated SCHADS rate table.
type AwardRateHandler struct {
	service *service.AwardRateService
}

// NewAwardRateHandler creates a new handler.
func NewAwardRateHandler(svc *service.AwardRateService) *AwardRateHandler {
	return &AwardRateHandler{service: svc}
}

// List godoc
// @Summary List award rates
// @Tags Payroll
// @Produce json
// @Param level query string false "Award level filter"
// @Success 200 {object} response.Envelope
// @Router /award-rates [get]
func (h *AwardRateHandler) List(c *gin.Context) {
	rates, err := h.service.List(c.Request.Context(), c.Query("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rates, nil)
}

// Create godoc
// @Summary Create award rate
// @Tags Payroll
// @Accept json
// @Produce json
// @Param payload body models.AwardRate true "Rate payload"
// @Success 201 {object} response.Envelope
// @Router /award-rates [post]
func (h *AwardRateHandler) Create(c *gin.Context) {
	var rate models.AwardRate
	if err := c.ShouldBindJSON(&rate); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rate payload"))
		return
	}
	if err := h.service.Create(c.Request.Context(), &rate); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rate)
}

// Deactivate godoc
// @Summary Deactivate award rate
// @Tags Payroll
// @Produce json
// @Param id path string true "Rate ID"
// @Success 204 {object} response.Envelope
// @Router /award-rates/{id} [delete]
func (h *AwardRateHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
