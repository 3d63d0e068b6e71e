package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/service"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
	"github.com/careops-au/ndis-ops-api/pkg/response"
)

// PayrollHandler exposes ad-hoc pay calculations.
type PayrollHandler struct {
	service *service.PayrollService
}

// NewPayrollHandler creates a new handler.
func NewPayrollHandler(svc *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{service: svc}
}

// Calculate godoc
// @Summary Preview one staff member's pay
// @Description Runs the SCHADS calculation over a supplied hours breakdown without persisting anything
// @Tags Payroll
// @Accept json
// @Produce json
// @Param staffId path string true "Staff ID"
// @Param payload body models.PayCalculationRequest true "Hours and allowances"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /payroll/calculate/{staffId} [post]
func (h *PayrollHandler) Calculate(c *gin.Context) {
	var req models.PayCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calculation payload"))
		return
	}

	breakdown, err := h.service.CalculateStaffPay(c.Request.Context(), c.Param("staffId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, nil)
}
