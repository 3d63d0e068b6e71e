package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/service"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
	"github.com/careops-au/ndis-ops-api/pkg/response"
)

// PayRunHandler exposes pay run processing and downloads.
type PayRunHandler struct {
	service *service.PayRunService
}

// NewPayRunHandler creates a new handler.
func NewPayRunHandler(svc *service.PayRunService) *PayRunHandler {
	return &PayRunHandler{service: svc}
}

// Process godoc
// @Summary Run payroll for a period
// @Description Aggregates timesheets, prices every staff member and renders the ABA bank file
// @Tags PayRuns
// @Accept json
// @Produce json
// @Param payload body models.PayRunRequest true "Pay run period"
// @Success 201 {object} response.Envelope
// @Router /payruns [post]
func (h *PayRunHandler) Process(c *gin.Context) {
	var req models.PayRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pay run payload"))
		return
	}

	run, slips, err := h.service.ProcessPayRun(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"pay_run": run, "payslips": slips}, nil)
}

// List godoc
// @Summary List recent pay runs
// @Tags PayRuns
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {object} response.Envelope
// @Router /payruns [get]
func (h *PayRunHandler) List(c *gin.Context) {
	runs, err := h.service.ListPayRuns(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}

// Get godoc
// @Summary Get pay run
// @Tags PayRuns
// @Produce json
// @Param id path string true "Pay run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payruns/{id} [get]
func (h *PayRunHandler) Get(c *gin.Context) {
	run, err := h.service.GetPayRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Payslips godoc
// @Summary List payslips in a run
// @Tags PayRuns
// @Produce json
// @Param id path string true "Pay run ID"
// @Success 200 {object} response.Envelope
// @Router /payruns/{id}/payslips [get]
func (h *PayRunHandler) Payslips(c *gin.Context) {
	slips, err := h.service.GetPayslips(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slips, nil)
}

// Export godoc
// @Summary Export payslips
// @Description Renders the run's payslips as CSV or PDF and returns a signed download token
// @Tags PayRuns
// @Produce json
// @Param id path string true "Pay run ID"
// @Param format query string false "csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /payruns/{id}/export [post]
func (h *PayRunHandler) Export(c *gin.Context) {
	token, expiresAt, err := h.service.ExportPayslips(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token, "expires_at": expiresAt}, nil)
}

// Download godoc
// @Summary Download a signed export
// @Tags PayRuns
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /payruns/download [get]
func (h *PayRunHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	path, err := h.service.OpenExport(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, "payslips"+fileExt(path))
}

func fileExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
