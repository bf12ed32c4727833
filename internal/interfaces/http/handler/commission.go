package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrollapp "github.com/timax/backend/internal/application/payroll"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/interfaces/http/dto"
)

// CommissionHandler handles commission and commission rate API endpoints
type CommissionHandler struct {
	BaseHandler
	service *payrollapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(service *payrollapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{service: service}
}

// CommissionResponse represents a commission in API responses
type CommissionResponse struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	JobID            string     `json:"job_id"`
	JobLineID        string     `json:"job_line_id"`
	ServiceVariantID string     `json:"service_variant_id"`
	Rate             float64    `json:"rate"`
	ServiceAmount    float64    `json:"service_amount"`
	Amount           float64    `json:"amount"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// CommissionRateResponse represents a commission rate in API responses
type CommissionRateResponse struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employee_id"`
	ServiceVariantID *string   `json:"service_variant_id,omitempty"`
	Rate             float64   `json:"rate"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateCommissionRequest represents a billed job line handed over by
// the sales layer
type CreateCommissionRequest struct {
	EmployeeID       string  `json:"employee_id" binding:"required,uuid"`
	JobID            string  `json:"job_id" binding:"required,uuid"`
	JobLineID        string  `json:"job_line_id" binding:"required,uuid"`
	ServiceVariantID string  `json:"service_variant_id" binding:"required,uuid"`
	ServiceAmount    float64 `json:"service_amount" binding:"required,gt=0"`
}

// CommissionIDsRequest carries the commissions for a batch transition
type CommissionIDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// CreateCommissionRateRequest represents a request to configure a rate
type CreateCommissionRateRequest struct {
	EmployeeID       string  `json:"employee_id" binding:"required,uuid"`
	ServiceVariantID *string `json:"service_variant_id" binding:"omitempty,uuid"`
	Rate             float64 `json:"rate" binding:"required,gt=0,lte=100"`
}

// EmployeeQuery binds the employee selector used by list endpoints
type EmployeeQuery struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
}

// CreateCommission godoc
//
//	@Summary	Create a commission from a billed job line
//	@Tags		commissions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateCommissionRequest	true	"Billed line data"
//	@Success	201		{object}	dto.Response
//	@Router		/payroll/commissions [post]
func (h *CommissionHandler) CreateCommission(c *gin.Context) {
	var req CreateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	commission, err := h.service.CreateFromBilledLine(c.Request.Context(), payrollapp.BilledLineRequest{
		EmployeeID:       uuid.MustParse(req.EmployeeID),
		JobID:            uuid.MustParse(req.JobID),
		JobLineID:        uuid.MustParse(req.JobLineID),
		ServiceVariantID: uuid.MustParse(req.ServiceVariantID),
		ServiceAmount:    toDecimal(req.ServiceAmount),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// No configured rate means no commission for this line
	if commission == nil {
		h.Success(c, nil)
		return
	}

	h.Created(c, toCommissionResponse(commission))
}

// ListCommissions godoc
//
//	@Summary	List an employee's commissions
//	@Tags		commissions
//	@Produce	json
//	@Param		employee_id	query		string	true	"Employee ID"
//	@Success	200			{object}	dto.Response
//	@Router		/payroll/commissions [get]
func (h *CommissionHandler) ListCommissions(c *gin.Context) {
	var query EmployeeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	commissions, err := h.service.ListByEmployee(c.Request.Context(), uuid.MustParse(query.EmployeeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		response[i] = toCommissionResponse(&commissions[i])
	}

	h.Success(c, response)
}

// MarkPayable godoc
//
//	@Summary	Mark commissions payable
//	@Tags		commissions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CommissionIDsRequest	true	"Commission IDs"
//	@Success	200		{object}	dto.Response
//	@Router		/payroll/commissions/mark-payable [post]
func (h *CommissionHandler) MarkPayable(c *gin.Context) {
	h.batchTransition(c, h.service.MarkPayable)
}

// MarkPaid godoc
//
//	@Summary	Pay out commissions and recover outstanding advances
//	@Tags		commissions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CommissionIDsRequest	true	"Commission IDs"
//	@Success	200		{object}	dto.Response
//	@Router		/payroll/commissions/mark-paid [post]
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	h.batchTransition(c, h.service.MarkPaid)
}

// batchTransition binds the shared ID-list payload and applies one of
// the batch status transitions
func (h *CommissionHandler) batchTransition(c *gin.Context, fn func(ctx context.Context, ids []uuid.UUID) ([]payroll.Commission, error)) {
	var req CommissionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, s := range req.IDs {
		ids[i] = uuid.MustParse(s)
	}

	commissions, err := fn(c.Request.Context(), ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		response[i] = toCommissionResponse(&commissions[i])
	}

	h.Success(c, response)
}

// CancelCommission godoc
//
//	@Summary	Cancel a commission
//	@Tags		commissions
//	@Produce	json
//	@Param		id	path		string	true	"Commission ID"
//	@Success	200	{object}	dto.Response
//	@Router		/payroll/commissions/{id}/cancel [post]
func (h *CommissionHandler) CancelCommission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid commission ID")
		return
	}

	commission, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCommissionResponse(commission))
}

// GetSummary godoc
//
//	@Summary	Get an employee's commission summary
//	@Tags		commissions
//	@Produce	json
//	@Param		employee_id	query		string	true	"Employee ID"
//	@Success	200			{object}	dto.Response
//	@Router		/payroll/commissions/summary [get]
func (h *CommissionHandler) GetSummary(c *gin.Context) {
	var query EmployeeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), uuid.MustParse(query.EmployeeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// CreateRate godoc
//
//	@Summary	Configure a commission rate
//	@Tags		commissions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateCommissionRateRequest	true	"Rate configuration"
//	@Success	201		{object}	dto.Response
//	@Router		/payroll/commission-rates [post]
func (h *CommissionHandler) CreateRate(c *gin.Context) {
	var req CreateCommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	serviceReq := payrollapp.CreateRateRequest{
		EmployeeID: uuid.MustParse(req.EmployeeID),
		Rate:       toDecimal(req.Rate),
	}
	if req.ServiceVariantID != nil {
		variantID := uuid.MustParse(*req.ServiceVariantID)
		serviceReq.ServiceVariantID = &variantID
	}

	rate, err := h.service.CreateRate(c.Request.Context(), serviceReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCommissionRateResponse(rate))
}

// ListRates godoc
//
//	@Summary	List an employee's commission rates
//	@Tags		commissions
//	@Produce	json
//	@Param		employee_id	query		string	true	"Employee ID"
//	@Success	200			{object}	dto.Response
//	@Router		/payroll/commission-rates [get]
func (h *CommissionHandler) ListRates(c *gin.Context) {
	var query EmployeeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	rates, err := h.service.ListRates(c.Request.Context(), uuid.MustParse(query.EmployeeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]CommissionRateResponse, len(rates))
	for i := range rates {
		response[i] = toCommissionRateResponse(&rates[i])
	}

	h.Success(c, response)
}

func toCommissionResponse(cm *payroll.Commission) CommissionResponse {
	return CommissionResponse{
		ID:               cm.ID.String(),
		EmployeeID:       cm.EmployeeID.String(),
		JobID:            cm.JobID.String(),
		JobLineID:        cm.JobLineID.String(),
		ServiceVariantID: cm.ServiceVariantID.String(),
		Rate:             cm.Rate.InexactFloat64(),
		ServiceAmount:    cm.ServiceAmount.InexactFloat64(),
		Amount:           cm.Amount.InexactFloat64(),
		Status:           cm.Status.String(),
		PaidAt:           cm.PaidAt,
		CreatedAt:        cm.CreatedAt,
		UpdatedAt:        cm.UpdatedAt,
		Version:          cm.Version,
	}
}

func toCommissionRateResponse(r *payroll.CommissionRate) CommissionRateResponse {
	resp := CommissionRateResponse{
		ID:         r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Rate:       r.Rate.InexactFloat64(),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.ServiceVariantID != nil {
		s := r.ServiceVariantID.String()
		resp.ServiceVariantID = &s
	}
	return resp
}

// RegisterRoutes registers commission and rate routes
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	commissions := rg.Group("/payroll/commissions")
	{
		commissions.GET("", h.ListCommissions)
		commissions.GET("/summary", h.GetSummary)
		commissions.POST("", h.CreateCommission)
		commissions.POST("/mark-payable", h.MarkPayable)
		commissions.POST("/mark-paid", h.MarkPaid)
		commissions.POST("/:id/cancel", h.CancelCommission)
	}

	rates := rg.Group("/payroll/commission-rates")
	{
		rates.GET("", h.ListRates)
		rates.POST("", h.CreateRate)
	}
}
