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

// AccountHandler handles chart-of-accounts API endpoints
type AccountHandler struct {
	BaseHandler
	service *acctapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service *acctapp.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// AccountResponse represents a ledger account in API responses
type AccountResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountType   string    `json:"account_type"`
	CategoryID    *string   `json:"category_id,omitempty"`
	Description   string    `json:"description,omitempty"`
	DebitBalance  float64   `json:"debit_balance"`
	CreditBalance float64   `json:"credit_balance"`
	Balance       float64   `json:"balance"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// AccountCategoryResponse represents an account category in API responses
type AccountCategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAccountRequest represents a request to create a ledger account
type CreateAccountRequest struct {
	Code        string  `json:"code" binding:"required,max=20"`
	Name        string  `json:"name" binding:"required"`
	AccountType string  `json:"account_type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Description string  `json:"description"`
}

// CreateAccountCategoryRequest represents a request to create an account category
type CreateAccountCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"account_type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string `json:"description"`
}

// AccountListFilter represents filter parameters for the account list
type AccountListFilter struct {
	dto.ListRequest
	AccountType string `form:"account_type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsActive    *bool  `form:"is_active"`
}

// ListAccounts godoc
//
//	@Summary	List ledger accounts
//	@Tags		accounts
//	@Produce	json
//	@Param		account_type	query		string	false	"Filter by type"	Enums(ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE)
//	@Param		is_active		query		bool	false	"Filter by active flag"
//	@Param		search			query		string	false	"Search in code and name"
//	@Param		page			query		int		false	"Page number"	default(1)
//	@Param		page_size		query		int		false	"Page size"		default(20)
//	@Success	200				{object}	dto.Response
//	@Router		/accounting/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var filter AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	filters := make(map[string]interface{})
	if filter.AccountType != "" {
		filters["account_type"] = filter.AccountType
	}
	if filter.IsActive != nil {
		filters["is_active"] = *filter.IsActive
	}

	page, err := h.service.ListAccounts(c.Request.Context(), buildFilter(filter.ListRequest, filters))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]AccountResponse, len(page.Items))
	for i := range page.Items {
		response[i] = toAccountResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, response, page.Total, page.Page, page.PageSize)
}

// GetAccount godoc
//
//	@Summary	Get a ledger account
//	@Tags		accounts
//	@Produce	json
//	@Param		id	path		string	true	"Account ID"
//	@Success	200	{object}	dto.Response
//	@Router		/accounting/accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid account ID")
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(account))
}

// CreateAccount godoc
//
//	@Summary	Create a ledger account
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateAccountRequest	true	"Account creation request"
//	@Success	201		{object}	dto.Response
//	@Router		/accounting/accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	serviceReq := acctapp.CreateAccountRequest{
		Code:        req.Code,
		Name:        req.Name,
		AccountType: accounting.AccountType(req.AccountType),
		Description: req.Description,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid category ID")
			return
		}
		serviceReq.CategoryID = &categoryID
	}

	account, err := h.service.CreateAccount(c.Request.Context(), serviceReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAccountResponse(account))
}

// DeactivateAccount godoc
//
//	@Summary	Deactivate a ledger account
//	@Tags		accounts
//	@Produce	json
//	@Param		id	path		string	true	"Account ID"
//	@Success	200	{object}	dto.Response
//	@Router		/accounting/accounts/{id}/deactivate [post]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid account ID")
		return
	}

	account, err := h.service.DeactivateAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(account))
}

// ListCategories godoc
//
//	@Summary	List account categories
//	@Tags		accounts
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Router		/accounting/account-categories [get]
func (h *AccountHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]AccountCategoryResponse, len(categories))
	for i := range categories {
		response[i] = toAccountCategoryResponse(&categories[i])
	}

	h.Success(c, response)
}

// CreateCategory godoc
//
//	@Summary	Create an account category
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateAccountCategoryRequest	true	"Category creation request"
//	@Success	201		{object}	dto.Response
//	@Router		/accounting/account-categories [post]
func (h *AccountHandler) CreateCategory(c *gin.Context) {
	var req CreateAccountCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(),
		req.Name, accounting.AccountType(req.AccountType), req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAccountCategoryResponse(category))
}

func toAccountResponse(a *accounting.Account) AccountResponse {
	var categoryID *string
	if a.CategoryID != nil {
		s := a.CategoryID.String()
		categoryID = &s
	}

	return AccountResponse{
		ID:            a.ID.String(),
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   a.AccountType.String(),
		CategoryID:    categoryID,
		Description:   a.Description,
		DebitBalance:  a.DebitBalance.InexactFloat64(),
		CreditBalance: a.CreditBalance.InexactFloat64(),
		Balance:       a.Balance.InexactFloat64(),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		Version:       a.Version,
	}
}

func toAccountCategoryResponse(cat *accounting.AccountCategory) AccountCategoryResponse {
	return AccountCategoryResponse{
		ID:          cat.ID.String(),
		Name:        cat.Name,
		AccountType: cat.AccountType.String(),
		Description: cat.Description,
		CreatedAt:   cat.CreatedAt,
	}
}

// RegisterRoutes registers account and category routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounting/accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.POST("", h.CreateAccount)
		accounts.POST("/:id/deactivate", h.DeactivateAccount)
	}

	categories := rg.Group("/accounting/account-categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
	}
}
