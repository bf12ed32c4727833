package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	assetapp "github.com/timax/backend/internal/application/assets"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/interfaces/http/dto"
)

// AssetHandler handles fixed asset API endpoints
type AssetHandler struct {
	BaseHandler
	service *assetapp.LifecycleService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(service *assetapp.LifecycleService) *AssetHandler {
	return &AssetHandler{service: service}
}

// AssetResponse represents a fixed asset in API responses
type AssetResponse struct {
	ID                      string     `json:"id"`
	AssetNumber             string     `json:"asset_number"`
	Name                    string     `json:"name"`
	CategoryID              string     `json:"category_id"`
	SerialNumber            string     `json:"serial_number,omitempty"`
	PurchaseDate            time.Time  `json:"purchase_date"`
	PurchaseCost            float64    `json:"purchase_cost"`
	SalvageValue            float64    `json:"salvage_value"`
	UsefulLifeYears         *int       `json:"useful_life_years,omitempty"`
	DepreciationMethod      *string    `json:"depreciation_method,omitempty"`
	AccumulatedDepreciation float64    `json:"accumulated_depreciation"`
	CurrentBookValue        float64    `json:"current_book_value"`
	LastDepreciationDate    *time.Time `json:"last_depreciation_date,omitempty"`
	Status                  string     `json:"status"`
	DisposalDate            *time.Time `json:"disposal_date,omitempty"`
	DisposalAmount          *float64   `json:"disposal_amount,omitempty"`
	DisposalMethod          *string    `json:"disposal_method,omitempty"`
	GainLoss                *float64   `json:"gain_loss,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	Version                 int        `json:"version"`
}

// AssetCategoryResponse represents an asset category in API responses
type AssetCategoryResponse struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	UsefulLifeYears    int       `json:"useful_life_years"`
	DepreciationMethod string    `json:"depreciation_method"`
	AssetAccountCode   string    `json:"asset_account_code"`
	AccumAccountCode   string    `json:"accum_account_code"`
	ExpenseAccountCode string    `json:"expense_account_code"`
	CreatedAt          time.Time `json:"created_at"`
}

// DepreciationRecordResponse represents one recorded depreciation period
type DepreciationRecordResponse struct {
	ID             string    `json:"id"`
	AssetID        string    `json:"asset_id"`
	PeriodYear     int       `json:"period_year"`
	PeriodMonth    int       `json:"period_month"`
	Amount         float64   `json:"amount"`
	BookValueAfter float64   `json:"book_value_after"`
	JournalEntryID *string   `json:"journal_entry_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterAssetRequest represents a request to register a purchased asset
type RegisterAssetRequest struct {
	Name            string    `json:"name" binding:"required"`
	CategoryID      string    `json:"category_id" binding:"required,uuid"`
	SerialNumber    string    `json:"serial_number"`
	PurchaseDate    time.Time `json:"purchase_date" binding:"required"`
	PurchaseCost    float64   `json:"purchase_cost" binding:"required,gt=0"`
	SalvageValue    float64   `json:"salvage_value" binding:"omitempty,gte=0"`
	UsefulLifeYears *int      `json:"useful_life_years" binding:"omitempty,min=1"`
	Method          *string   `json:"depreciation_method" binding:"omitempty,oneof=STRAIGHT_LINE DOUBLE_DECLINING DECLINING_BALANCE"`
}

// DisposeAssetRequest represents a request to dispose of an asset
type DisposeAssetRequest struct {
	DisposalDate   time.Time `json:"disposal_date" binding:"required"`
	DisposalAmount float64   `json:"disposal_amount" binding:"omitempty,gte=0"`
	Method         string    `json:"method" binding:"required,oneof=SCRAPPED SOLD DONATED TRADE_IN"`
}

// RunDepreciationRequest represents a request to run monthly depreciation
type RunDepreciationRequest struct {
	AsOf string `json:"as_of" binding:"omitempty"`
}

// CreateAssetCategoryRequest represents a request to create an asset category
type CreateAssetCategoryRequest struct {
	Code               string `json:"code" binding:"required,max=10"`
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	UsefulLifeYears    int    `json:"useful_life_years" binding:"required,min=1"`
	Method             string `json:"depreciation_method" binding:"required,oneof=STRAIGHT_LINE DOUBLE_DECLINING DECLINING_BALANCE"`
	AssetAccountCode   string `json:"asset_account_code" binding:"required"`
	AccumAccountCode   string `json:"accum_account_code" binding:"required"`
	ExpenseAccountCode string `json:"expense_account_code" binding:"required"`
}

// AssetListFilter represents filter parameters for the asset list
type AssetListFilter struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE DISPOSED SOLD LOST STOLEN"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

// ListAssets godoc
//
//	@Summary	List fixed assets
//	@Tags		assets
//	@Produce	json
//	@Param		status		query		string	false	"Filter by status"	Enums(ACTIVE, INACTIVE, DISPOSED, SOLD, LOST, STOLEN)
//	@Param		category_id	query		string	false	"Filter by category"
//	@Param		search		query		string	false	"Search in number and name"
//	@Param		page		query		int		false	"Page number"	default(1)
//	@Param		page_size	query		int		false	"Page size"		default(20)
//	@Success	200			{object}	dto.Response
//	@Router		/assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var filter AssetListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	filters := make(map[string]interface{})
	if filter.Status != "" {
		filters["status"] = filter.Status
	}
	if filter.CategoryID != "" {
		filters["category_id"] = filter.CategoryID
	}

	page, err := h.service.ListAssets(c.Request.Context(), buildFilter(filter.ListRequest, filters))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]AssetResponse, len(page.Items))
	for i := range page.Items {
		response[i] = toAssetResponse(&page.Items[i])
	}

	h.SuccessWithMeta(c, response, page.Total, page.Page, page.PageSize)
}

// GetAsset godoc
//
//	@Summary	Get a fixed asset
//	@Tags		assets
//	@Produce	json
//	@Param		id	path		string	true	"Asset ID"
//	@Success	200	{object}	dto.Response
//	@Router		/assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid asset ID")
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAssetResponse(asset))
}

// RegisterAsset godoc
//
//	@Summary	Register a purchased asset
//	@Tags		assets
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterAssetRequest	true	"Asset registration request"
//	@Success	201		{object}	dto.Response
//	@Router		/assets [post]
func (h *AssetHandler) RegisterAsset(c *gin.Context) {
	var req RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid category ID")
		return
	}

	serviceReq := assetapp.RegisterAssetRequest{
		Name:            req.Name,
		CategoryID:      categoryID,
		SerialNumber:    req.SerialNumber,
		PurchaseDate:    req.PurchaseDate,
		PurchaseCost:    toDecimal(req.PurchaseCost),
		SalvageValue:    toDecimal(req.SalvageValue),
		UsefulLifeYears: req.UsefulLifeYears,
	}
	if req.Method != nil {
		method := assets.DepreciationMethod(*req.Method)
		serviceReq.Method = &method
	}

	asset, err := h.service.RegisterAsset(c.Request.Context(), serviceReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAssetResponse(asset))
}

// GetSchedule godoc
//
//	@Summary	Get an asset's amortization schedule
//	@Tags		assets
//	@Produce	json
//	@Param		id	path		string	true	"Asset ID"
//	@Success	200	{object}	dto.Response
//	@Router		/assets/{id}/schedule [get]
func (h *AssetHandler) GetSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid asset ID")
		return
	}

	schedule, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// ListDepreciationRecords godoc
//
//	@Summary	List an asset's depreciation records
//	@Tags		assets
//	@Produce	json
//	@Param		id	path		string	true	"Asset ID"
//	@Success	200	{object}	dto.Response
//	@Router		/assets/{id}/depreciation-records [get]
func (h *AssetHandler) ListDepreciationRecords(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid asset ID")
		return
	}

	records, err := h.service.ListDepreciationRecords(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]DepreciationRecordResponse, len(records))
	for i := range records {
		response[i] = toDepreciationRecordResponse(&records[i])
	}

	h.Success(c, response)
}

// RunDepreciation godoc
//
//	@Summary	Run monthly depreciation for all active assets
//	@Tags		assets
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RunDepreciationRequest	false	"Run parameters"
//	@Success	200		{object}	dto.Response
//	@Router		/assets/depreciation-runs [post]
func (h *AssetHandler) RunDepreciation(c *gin.Context) {
	var req RunDepreciationRequest
	c.ShouldBindJSON(&req) // as_of is optional, defaults to today

	var asOf time.Time
	if req.AsOf != "" {
		t, err := parseDate(req.AsOf)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = t
	}

	result, err := h.service.RunMonthlyDepreciation(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DisposeAsset godoc
//
//	@Summary	Dispose of an asset
//	@Tags		assets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Asset ID"
//	@Param		request	body		DisposeAssetRequest	true	"Disposal request"
//	@Success	200		{object}	dto.Response
//	@Router		/assets/{id}/dispose [post]
func (h *AssetHandler) DisposeAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid asset ID")
		return
	}

	var req DisposeAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	asset, err := h.service.DisposeAsset(c.Request.Context(), id, assetapp.DisposeAssetRequest{
		DisposalDate:   req.DisposalDate,
		DisposalAmount: toDecimal(req.DisposalAmount),
		Method:         assets.DisposalMethod(req.Method),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAssetResponse(asset))
}

// ListCategories godoc
//
//	@Summary	List asset categories
//	@Tags		assets
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Router		/asset-categories [get]
func (h *AssetHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := make([]AssetCategoryResponse, len(categories))
	for i := range categories {
		response[i] = toAssetCategoryResponse(&categories[i])
	}

	h.Success(c, response)
}

// CreateCategory godoc
//
//	@Summary	Create an asset category
//	@Tags		assets
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateAssetCategoryRequest	true	"Category creation request"
//	@Success	201		{object}	dto.Response
//	@Router		/asset-categories [post]
func (h *AssetHandler) CreateCategory(c *gin.Context) {
	var req CreateAssetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), assetapp.CreateCategoryRequest{
		Code:               req.Code,
		Name:               req.Name,
		Description:        req.Description,
		UsefulLifeYears:    req.UsefulLifeYears,
		Method:             assets.DepreciationMethod(req.Method),
		AssetAccountCode:   req.AssetAccountCode,
		AccumAccountCode:   req.AccumAccountCode,
		ExpenseAccountCode: req.ExpenseAccountCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAssetCategoryResponse(category))
}

func toAssetResponse(a *assets.Asset) AssetResponse {
	resp := AssetResponse{
		ID:                      a.ID.String(),
		AssetNumber:             a.AssetNumber,
		Name:                    a.Name,
		CategoryID:              a.CategoryID.String(),
		SerialNumber:            a.SerialNumber,
		PurchaseDate:            a.PurchaseDate,
		PurchaseCost:            a.PurchaseCost.InexactFloat64(),
		SalvageValue:            a.SalvageValue.InexactFloat64(),
		UsefulLifeYears:         a.UsefulLifeYears,
		AccumulatedDepreciation: a.AccumulatedDepreciation.InexactFloat64(),
		CurrentBookValue:        a.CurrentBookValue.InexactFloat64(),
		LastDepreciationDate:    a.LastDepreciationDate,
		Status:                  a.Status.String(),
		DisposalDate:            a.DisposalDate,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
		Version:                 a.Version,
	}
	if a.Method != nil {
		s := string(*a.Method)
		resp.DepreciationMethod = &s
	}
	if a.DisposalAmount != nil {
		f := a.DisposalAmount.InexactFloat64()
		resp.DisposalAmount = &f
	}
	if a.DisposalMethod != nil {
		s := string(*a.DisposalMethod)
		resp.DisposalMethod = &s
	}
	if a.GainLoss != nil {
		f := a.GainLoss.InexactFloat64()
		resp.GainLoss = &f
	}
	return resp
}

func toAssetCategoryResponse(cat *assets.AssetCategory) AssetCategoryResponse {
	return AssetCategoryResponse{
		ID:                 cat.ID.String(),
		Code:               cat.Code,
		Name:               cat.Name,
		Description:        cat.Description,
		UsefulLifeYears:    cat.UsefulLifeYears,
		DepreciationMethod: string(cat.Method),
		AssetAccountCode:   cat.AssetAccountCode,
		AccumAccountCode:   cat.AccumAccountCode,
		ExpenseAccountCode: cat.ExpenseAccountCode,
		CreatedAt:          cat.CreatedAt,
	}
}

func toDepreciationRecordResponse(r *assets.DepreciationRecord) DepreciationRecordResponse {
	resp := DepreciationRecordResponse{
		ID:             r.ID.String(),
		AssetID:        r.AssetID.String(),
		PeriodYear:     r.PeriodYear,
		PeriodMonth:    r.PeriodMonth,
		Amount:         r.Amount.InexactFloat64(),
		BookValueAfter: r.BookValueAfter.InexactFloat64(),
		CreatedAt:      r.CreatedAt,
	}
	if r.JournalEntryID != nil {
		s := r.JournalEntryID.String()
		resp.JournalEntryID = &s
	}
	return resp
}

// RegisterRoutes registers asset and category routes
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assetRoutes := rg.Group("/assets")
	{
		assetRoutes.GET("", h.ListAssets)
		assetRoutes.GET("/:id", h.GetAsset)
		assetRoutes.POST("", h.RegisterAsset)
		assetRoutes.GET("/:id/schedule", h.GetSchedule)
		assetRoutes.GET("/:id/depreciation-records", h.ListDepreciationRecords)
		assetRoutes.POST("/:id/dispose", h.DisposeAsset)
		assetRoutes.POST("/depreciation-runs", h.RunDepreciation)
	}

	categories := rg.Group("/asset-categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
	}
}
