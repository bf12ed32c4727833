package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrollapp "github.com/timax/backend/internal/application/payroll"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/interfaces/http/dto"
)

// TipHandler handles tip API endpoints
type TipHandler struct {
	BaseHandler
	service *payrollapp.TipService
}

// NewTipHandler creates a new TipHandler
func NewTipHandler(service *payrollapp.TipService) *TipHandler {
	return &TipHandler{service: service}
}

// TipResponse represents a tip in API responses
type TipResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	JobID      string     `json:"job_id"`
	Amount     float64    `json:"amount"`
	Note       string     `json:"note,omitempty"`
	Status     string     `json:"status"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// RecordTipRequest represents a request to record a customer tip
type RecordTipRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	JobID      string  `json:"job_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Note       string  `json:"note"`
}

// RecordTip godoc
//
//	@Summary	Record a customer tip
//	@Tags		tips
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RecordTipRequest	true	"Tip details"
//	@Success	201		{object}	dto.Response
//	@Router		/payroll/tips [post]
func (h *TipHandler) RecordTip(c *gin.Context) {
	var req RecordTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	tip, err := h.service.RecordTip(c.Request.Context(), payrollapp.RecordTipRequest{
		EmployeeID: uuid.MustParse(req.EmployeeID),
		JobID:      uuid.MustParse(req.JobID),
		Amount:     toDecimal(req.Amount),
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTipResponse(tip))
}

// ListTips godoc
//
//	@Summary	List an employee's tips
//	@Tags		tips
//	@Produce	json
//	@Param		employee_id	query		string	true	"Employee ID"
//	@Success	200			{object}	dto.Response
//	@Router		/payroll/tips [get]
func (h *TipHandler) ListTips(c *gin.Context) {
	var query EmployeeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	tips, err := h.service.ListTipsByEmployee(c.Request.Context(), uuid.MustParse(query.EmployeeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]TipResponse, len(tips))
	for i := range tips {
		response[i] = toTipResponse(&tips[i])
	}

	h.Success(c, response)
}

// PayTip godoc
//
//	@Summary	Pay out a pending tip
//	@Tags		tips
//	@Produce	json
//	@Param		id	path		string	true	"Tip ID"
//	@Success	200	{object}	dto.Response
//	@Router		/payroll/tips/{id}/pay [post]
func (h *TipHandler) PayTip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid tip ID")
		return
	}

	tip, err := h.service.PayTip(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTipResponse(tip))
}

// CancelTip godoc
//
//	@Summary	Cancel a pending tip
//	@Tags		tips
//	@Produce	json
//	@Param		id	path		string	true	"Tip ID"
//	@Success	200	{object}	dto.Response
//	@Router		/payroll/tips/{id}/cancel [post]
func (h *TipHandler) CancelTip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid tip ID")
		return
	}

	tip, err := h.service.CancelTip(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTipResponse(tip))
}

func toTipResponse(t *payroll.Tip) TipResponse {
	return TipResponse{
		ID:         t.ID.String(),
		EmployeeID: t.EmployeeID.String(),
		JobID:      t.JobID.String(),
		Amount:     t.Amount.InexactFloat64(),
		Note:       t.Note,
		Status:     t.Status.String(),
		PaidAt:     t.PaidAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		Version:    t.Version,
	}
}

// RegisterRoutes registers tip routes
func (h *TipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tips := rg.Group("/payroll/tips")
	{
		tips.GET("", h.ListTips)
		tips.POST("", h.RecordTip)
		tips.POST("/:id/pay", h.PayTip)
		tips.POST("/:id/cancel", h.CancelTip)
	}
}
