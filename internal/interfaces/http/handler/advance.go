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

// AdvanceHandler handles commission advance API endpoints
type AdvanceHandler struct {
	BaseHandler
	service *payrollapp.AdvanceService
}

// NewAdvanceHandler creates a new AdvanceHandler
func NewAdvanceHandler(service *payrollapp.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{service: service}
}

// AdvanceResponse represents an advance in API responses
type AdvanceResponse struct {
	ID                  string     `json:"id"`
	EmployeeID          string     `json:"employee_id"`
	RequestedAmount     float64    `json:"requested_amount"`
	ApprovedAmount      *float64   `json:"approved_amount,omitempty"`
	AvailableCommission float64    `json:"available_commission"`
	AdvanceDate         time.Time  `json:"advance_date"`
	Reason              string     `json:"reason,omitempty"`
	ReviewNote          string     `json:"review_note,omitempty"`
	Status              string     `json:"status"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`
	RecoveredAt         *time.Time `json:"recovered_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int        `json:"version"`
}

// RequestAdvanceRequest represents an employee's advance request
type RequestAdvanceRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
}

// ReviewAdvanceRequest carries the reviewer's decision
type ReviewAdvanceRequest struct {
	Approve bool     `json:"approve"`
	Amount  *float64 `json:"amount" binding:"omitempty,gt=0"`
	Note    string   `json:"note"`
}

// AvailableBalanceResponse reports the advance-eligible balance
type AvailableBalanceResponse struct {
	EmployeeID       string  `json:"employee_id"`
	AvailableBalance float64 `json:"available_balance"`
}

// RequestAdvance godoc
//
//	@Summary	Request a commission advance
//	@Tags		advances
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RequestAdvanceRequest	true	"Advance request"
//	@Success	201		{object}	dto.Response
//	@Router		/payroll/advances [post]
func (h *AdvanceHandler) RequestAdvance(c *gin.Context) {
	var req RequestAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	advance, err := h.service.RequestAdvance(c.Request.Context(), payrollapp.RequestAdvanceRequest{
		EmployeeID: uuid.MustParse(req.EmployeeID),
		Amount:     toDecimal(req.Amount),
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAdvanceResponse(advance))
}

// GiveAdvance godoc
//
//	@Summary	Record an advance paid out on the spot
//	@Tags		advances
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RequestAdvanceRequest	true	"Direct advance"
//	@Success	201		{object}	dto.Response
//	@Router		/payroll/advances/direct [post]
func (h *AdvanceHandler) GiveAdvance(c *gin.Context) {
	var req RequestAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	advance, err := h.service.GiveAdvance(c.Request.Context(), payrollapp.GiveAdvanceRequest{
		EmployeeID: uuid.MustParse(req.EmployeeID),
		Amount:     toDecimal(req.Amount),
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAdvanceResponse(advance))
}

// GetAdvance godoc
//
//	@Summary	Get an advance
//	@Tags		advances
//	@Produce	json
//	@Param		id	path		string	true	"Advance ID"
//	@Success	200	{object}	dto.Response
//	@Router		/payroll/advances/{id} [get]
func (h *AdvanceHandler) GetAdvance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid advance ID")
		return
	}

	advance, err := h.service.GetAdvance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdvanceResponse(advance))
}

// ListAdvances godoc
//
//	@Summary	List an employee's advances
//	@Tags		advances
//	@Produce	json
//	@Param		employee_id	query		string	true	"Employee ID"
//	@Success	200			{object}	dto.Response
//	@Router		/payroll/advances [get]
func (h *AdvanceHandler) ListAdvances(c *gin.Context) {
	var query EmployeeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	advances, err := h.service.ListByEmployee(c.Request.Context(), uuid.MustParse(query.EmployeeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]AdvanceResponse, len(advances))
	for i := range advances {
		response[i] = toAdvanceResponse(&advances[i])
	}

	h.Success(c, response)
}

// ReviewAdvance godoc
//
//	@Summary	Approve or reject a pending advance
//	@Tags		advances
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Advance ID"
//	@Param		request	body		ReviewAdvanceRequest	true	"Review decision"
//	@Success	200		{object}	dto.Response
//	@Router		/payroll/advances/{id}/review [post]
func (h *AdvanceHandler) ReviewAdvance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid advance ID")
		return
	}

	var req ReviewAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	advance, err := h.service.ReviewAdvance(c.Request.Context(), payrollapp.ReviewAdvanceRequest{
		AdvanceID: id,
		Approve:   req.Approve,
		Amount:    toDecimalPtr(req.Amount),
		Note:      req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdvanceResponse(advance))
}

// PayAdvance godoc
//
//	@Summary	Pay out an approved advance
//	@Tags		advances
//	@Produce	json
//	@Param		id	path		string	true	"Advance ID"
//	@Success	200	{object}	dto.Response
//	@Router		/payroll/advances/{id}/pay [post]
func (h *AdvanceHandler) PayAdvance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid advance ID")
		return
	}

	advance, err := h.service.PayAdvance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdvanceResponse(advance))
}

// CancelAdvance godoc
//
//	@Summary	Withdraw a pending advance request
//	@Tags		advances
//	@Produce	json
//	@Param		id	path		string	true	"Advance ID"
//	@Success	200	{object}	dto.Response
//	@Router		/payroll/advances/{id}/cancel [post]
func (h *AdvanceHandler) CancelAdvance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid advance ID")
		return
	}

	advance, err := h.service.CancelAdvance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdvanceResponse(advance))
}

// GetAvailableBalance godoc
//
//	@Summary	Get an employee's advance-eligible balance
//	@Tags		advances
//	@Produce	json
//	@Param		employee_id	query		string	true	"Employee ID"
//	@Success	200			{object}	dto.Response
//	@Router		/payroll/advances/balance [get]
func (h *AdvanceHandler) GetAvailableBalance(c *gin.Context) {
	var query EmployeeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	balance, err := h.service.GetAvailableBalance(c.Request.Context(), uuid.MustParse(query.EmployeeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AvailableBalanceResponse{
		EmployeeID:       query.EmployeeID,
		AvailableBalance: balance.InexactFloat64(),
	})
}

func toAdvanceResponse(a *payroll.Advance) AdvanceResponse {
	resp := AdvanceResponse{
		ID:                  a.ID.String(),
		EmployeeID:          a.EmployeeID.String(),
		RequestedAmount:     a.RequestedAmount.InexactFloat64(),
		AvailableCommission: a.AvailableCommission.InexactFloat64(),
		AdvanceDate:         a.AdvanceDate,
		Reason:              a.Reason,
		ReviewNote:          a.ReviewNote,
		Status:              a.Status.String(),
		PaidAt:              a.PaidAt,
		RecoveredAt:         a.RecoveredAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		Version:             a.Version,
	}
	if a.ApprovedAmount != nil {
		f := a.ApprovedAmount.InexactFloat64()
		resp.ApprovedAmount = &f
	}
	return resp
}

// RegisterRoutes registers advance routes
func (h *AdvanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	advances := rg.Group("/payroll/advances")
	{
		advances.GET("", h.ListAdvances)
		advances.GET("/balance", h.GetAvailableBalance)
		advances.GET("/:id", h.GetAdvance)
		advances.POST("", h.RequestAdvance)
		advances.POST("/direct", h.GiveAdvance)
		advances.POST("/:id/review", h.ReviewAdvance)
		advances.POST("/:id/pay", h.PayAdvance)
		advances.POST("/:id/cancel", h.CancelAdvance)
	}
}
