package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	acctapp "github.com/timax/backend/internal/application/accounting"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/interfaces/http/dto"
)

// JournalHandler handles journal entry and ledger report API endpoints
type JournalHandler struct {
	BaseHandler
	service *acctapp.JournalService
	reports *acctapp.TrialBalanceService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(service *acctapp.JournalService, reports *acctapp.TrialBalanceService) *JournalHandler {
	return &JournalHandler{service: service, reports: reports}
}

// JournalLineResponse represents one entry line in API responses
type JournalLineResponse struct {
	ID        string  `json:"id"`
	AccountID string  `json:"account_id"`
	Debit     float64 `json:"debit"`
	Credit    float64 `json:"credit"`
	Memo      string  `json:"memo,omitempty"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID              string                `json:"id"`
	EntryNumber     string                `json:"entry_number"`
	EntryDate       time.Time             `json:"entry_date"`
	Description     string                `json:"description"`
	EntryType       string                `json:"entry_type"`
	Status          string                `json:"status"`
	Lines           []JournalLineResponse `json:"lines"`
	SourceType      *string               `json:"source_type,omitempty"`
	SourceID        *string               `json:"source_id,omitempty"`
	ReversesEntryID *string               `json:"reverses_entry_id,omitempty"`
	ReversedByID    *string               `json:"reversed_by_id,omitempty"`
	PostedAt        *time.Time            `json:"posted_at,omitempty"`
	ReversedAt      *time.Time            `json:"reversed_at,omitempty"`
	TotalDebits     float64               `json:"total_debits"`
	TotalCredits    float64               `json:"total_credits"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// JournalLineRequest represents one requested debit or credit
type JournalLineRequest struct {
	AccountID string  `json:"account_id" binding:"required,uuid"`
	Debit     float64 `json:"debit" binding:"omitempty,gt=0"`
	Credit    float64 `json:"credit" binding:"omitempty,gt=0"`
	Memo      string  `json:"memo"`
}

// CreateJournalEntryRequest represents a request to create a manual journal entry
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entry_date" binding:"required"`
	Description string               `json:"description" binding:"required"`
	EntryType   string               `json:"entry_type" binding:"omitempty,oneof=MANUAL ADJUSTMENT"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReverseEntryRequest represents a request to reverse a posted entry
type ReverseEntryRequest struct {
	Description string `json:"description"`
}

// JournalListFilter represents filter parameters for the entry list
type JournalListFilter struct {
	dto.ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	EntryType string `form:"entry_type" binding:"omitempty,oneof=MANUAL SALE PURCHASE DEPRECIATION DISPOSAL ADJUSTMENT"`
	FromDate  string `form:"from_date"`
	ToDate    string `form:"to_date"`
}

// ListEntries godoc
//
//	@Summary	List journal entries
//	@Tags		journal
//	@Produce	json
//	@Param		status		query		string	false	"Filter by status"	Enums(DRAFT, POSTED, REVERSED)
//	@Param		entry_type	query		string	false	"Filter by type"	Enums(MANUAL, SALE, PURCHASE, DEPRECIATION, DISPOSAL, ADJUSTMENT)
//	@Param		from_date	query		string	false	"Filter from date (YYYY-MM-DD)"
//	@Param		to_date		query		string	false	"Filter to date (YYYY-MM-DD)"
//	@Param		page		query		int		false	"Page number"	default(1)
//	@Param		page_size	query		int		false	"Page size"		default(20)
//	@Success	200			{object}	dto.Response
//	@Router		/accounting/journal-entries [get]
func (h *JournalHandler) ListEntries(c *gin.Context) {
	var filter JournalListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	filters := make(map[string]interface{})
	if filter.Status != "" {
		filters["status"] = filter.Status
	}
	if filter.EntryType != "" {
		filters["entry_type"] = filter.EntryType
	}
	if filter.FromDate != "" {
		if t, err := parseDate(filter.FromDate); err == nil {
			filters["from_date"] = t
		}
	}
	if filter.ToDate != "" {
		if t, err := parseDate(filter.ToDate); err == nil {
			filters["to_date"] = t.Add(24*time.Hour - time.Second)
		}
	}

	page, err := h.service.ListEntries(c.Request.Context(), buildFilter(filter.ListRequest, filters))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]JournalEntryResponse, len(page.Items))
	for i := range page.Items {
		response[i] = toJournalEntryResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, response, page.Total, page.Page, page.PageSize)
}

// GetEntry godoc
//
//	@Summary	Get a journal entry
//	@Tags		journal
//	@Produce	json
//	@Param		id	path		string	true	"Entry ID"
//	@Success	200	{object}	dto.Response
//	@Router		/accounting/journal-entries/{id} [get]
func (h *JournalHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid entry ID")
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toJournalEntryResponse(entry))
}

// CreateEntry godoc
//
//	@Summary	Create a manual journal entry
//	@Tags		journal
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateJournalEntryRequest	true	"Entry creation request"
//	@Success	201		{object}	dto.Response
//	@Router		/accounting/journal-entries [post]
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	entryType := accounting.EntryTypeManual
	if req.EntryType != "" {
		entryType = accounting.EntryType(req.EntryType)
	}

	lines := make([]acctapp.LineInput, 0, len(req.Lines))
	for _, in := range req.Lines {
		accountID, err := uuid.Parse(in.AccountID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid line account ID")
			return
		}
		lines = append(lines, acctapp.LineInput{
			AccountID: accountID,
			Debit:     toDecimal(in.Debit),
			Credit:    toDecimal(in.Credit),
			Memo:      in.Memo,
		})
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), acctapp.CreateEntryRequest{
		EntryDate:   req.EntryDate,
		Description: req.Description,
		EntryType:   entryType,
		Lines:       lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toJournalEntryResponse(entry))
}

// PostEntry godoc
//
//	@Summary	Post a draft journal entry
//	@Tags		journal
//	@Produce	json
//	@Param		id	path		string	true	"Entry ID"
//	@Success	200	{object}	dto.Response
//	@Router		/accounting/journal-entries/{id}/post [post]
func (h *JournalHandler) PostEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid entry ID")
		return
	}

	entry, err := h.service.PostEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.reports.Invalidate(c.Request.Context())

	h.Success(c, toJournalEntryResponse(entry))
}

// ReverseEntry godoc
//
//	@Summary	Reverse a posted journal entry
//	@Tags		journal
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Entry ID"
//	@Param		request	body		ReverseEntryRequest	false	"Reversal description"
//	@Success	200		{object}	dto.Response
//	@Router		/accounting/journal-entries/{id}/reverse [post]
func (h *JournalHandler) ReverseEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid entry ID")
		return
	}

	var req ReverseEntryRequest
	c.ShouldBindJSON(&req) // description is optional

	reversal, err := h.service.ReverseEntry(c.Request.Context(), id, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.reports.Invalidate(c.Request.Context())

	h.Success(c, toJournalEntryResponse(reversal))
}

// GetTrialBalance godoc
//
//	@Summary	Get the trial balance report
//	@Tags		journal
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Router		/accounting/reports/trial-balance [get]
func (h *JournalHandler) GetTrialBalance(c *gin.Context) {
	report, err := h.reports.GetTrialBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

func toJournalEntryResponse(e *accounting.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = JournalLineResponse{
			ID:        line.ID.String(),
			AccountID: line.AccountID.String(),
			Debit:     line.Debit.InexactFloat64(),
			Credit:    line.Credit.InexactFloat64(),
			Memo:      line.Memo,
		}
	}

	resp := JournalEntryResponse{
		ID:           e.ID.String(),
		EntryNumber:  e.EntryNumber,
		EntryDate:    e.EntryDate,
		Description:  e.Description,
		EntryType:    e.EntryType.String(),
		Status:       e.Status.String(),
		Lines:        lines,
		PostedAt:     e.PostedAt,
		ReversedAt:   e.ReversedAt,
		TotalDebits:  e.TotalDebits().InexactFloat64(),
		TotalCredits: e.TotalCredits().InexactFloat64(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Version:      e.Version,
	}
	if e.Source != nil {
		sourceType := e.Source.SourceType
		sourceID := e.Source.SourceID.String()
		resp.SourceType = &sourceType
		resp.SourceID = &sourceID
	}
	if e.ReversesEntryID != nil {
		s := e.ReversesEntryID.String()
		resp.ReversesEntryID = &s
	}
	if e.ReversedByID != nil {
		s := e.ReversedByID.String()
		resp.ReversedByID = &s
	}
	return resp
}

// RegisterRoutes registers journal entry and report routes
func (h *JournalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/accounting/journal-entries")
	{
		entries.GET("", h.ListEntries)
		entries.GET("/:id", h.GetEntry)
		entries.POST("", h.CreateEntry)
		entries.POST("/:id/post", h.PostEntry)
		entries.POST("/:id/reverse", h.ReverseEntry)
	}

	rg.GET("/accounting/reports/trial-balance", h.GetTrialBalance)
}
