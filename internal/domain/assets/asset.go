package assets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// AssetStatus represents the lifecycle state of a fixed asset
type AssetStatus string

const (
	AssetStatusActive   AssetStatus = "ACTIVE"
	AssetStatusInactive AssetStatus = "INACTIVE"
	AssetStatusDisposed AssetStatus = "DISPOSED"
	AssetStatusSold     AssetStatus = "SOLD"
	AssetStatusLost     AssetStatus = "LOST"
	AssetStatusStolen   AssetStatus = "STOLEN"
)

// IsValid checks if the status is a valid AssetStatus
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusInactive, AssetStatusDisposed,
		AssetStatusSold, AssetStatusLost, AssetStatusStolen:
		return true
	}
	return false
}

// String returns the string representation of AssetStatus
func (s AssetStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the asset has left the books
func (s AssetStatus) IsTerminal() bool {
	return s == AssetStatusDisposed || s == AssetStatusSold
}

// CanDepreciate returns true if monthly depreciation applies
func (s AssetStatus) CanDepreciate() bool {
	return s == AssetStatusActive
}

// DisposalMethod describes how an asset left service
type DisposalMethod string

const (
	DisposalMethodScrapped DisposalMethod = "SCRAPPED"
	DisposalMethodSold     DisposalMethod = "SOLD"
	DisposalMethodDonated  DisposalMethod = "DONATED"
	DisposalMethodTradeIn  DisposalMethod = "TRADE_IN"
)

// IsValid checks if the method is a valid DisposalMethod
func (m DisposalMethod) IsValid() bool {
	switch m {
	case DisposalMethodScrapped, DisposalMethodSold, DisposalMethodDonated, DisposalMethodTradeIn:
		return true
	}
	return false
}

// terminalStatus returns the asset status a disposal method leads to
func (m DisposalMethod) terminalStatus() AssetStatus {
	if m == DisposalMethodSold {
		return AssetStatusSold
	}
	return AssetStatusDisposed
}

// Asset represents a fixed asset aggregate root. Book value is always
// purchase cost minus accumulated depreciation, floored at salvage.
type Asset struct {
	shared.BaseAggregateRoot
	AssetNumber  string          `json:"asset_number"`
	Name         string          `json:"name"`
	CategoryID   uuid.UUID       `json:"category_id"`
	SerialNumber string          `json:"serial_number"`
	PurchaseDate time.Time       `json:"purchase_date"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	SalvageValue decimal.Decimal `json:"salvage_value"`
	// Overrides; nil means use the category default
	UsefulLifeYears *int                `json:"useful_life_years"`
	Method          *DepreciationMethod `json:"depreciation_method"`

	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	CurrentBookValue        decimal.Decimal `json:"current_book_value"`
	LastDepreciationDate    *time.Time      `json:"last_depreciation_date"`

	Status         AssetStatus      `json:"status"`
	DisposalDate   *time.Time       `json:"disposal_date"`
	DisposalAmount *decimal.Decimal `json:"disposal_amount"`
	DisposalMethod *DisposalMethod  `json:"disposal_method"`
	GainLoss       *decimal.Decimal `json:"gain_loss"`
}

// FormatAssetNumber renders an asset number as
// {CategoryCode}-{Year}-{seq} with the sequence zero-padded to four
// digits, e.g. VEH-2025-0001
func FormatAssetNumber(categoryCode string, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%04d", categoryCode, year, sequence)
}

// NewAsset registers a newly purchased asset
func NewAsset(name string, categoryID uuid.UUID, serialNumber string, purchaseDate time.Time,
	purchaseCost, salvageValue decimal.Decimal, usefulLifeYears *int, method *DepreciationMethod) (*Asset, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ASSET_NAME", "Asset name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if purchaseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PURCHASE_DATE", "Purchase date cannot be empty")
	}
	if !purchaseCost.IsPositive() {
		return nil, shared.NewDomainError("INVALID_COST", "Purchase cost must be positive")
	}
	if salvageValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALVAGE", "Salvage value cannot be negative")
	}
	if salvageValue.GreaterThan(purchaseCost) {
		return nil, shared.NewDomainError("INVALID_SALVAGE", "Salvage value cannot exceed purchase cost")
	}
	if usefulLifeYears != nil && *usefulLifeYears < 1 {
		return nil, shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life override must be at least one year")
	}
	if method != nil && !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Depreciation method %q is not valid", *method))
	}

	a := &Asset{
		BaseAggregateRoot:       shared.NewBaseAggregateRoot(),
		Name:                    name,
		CategoryID:              categoryID,
		SerialNumber:            serialNumber,
		PurchaseDate:            purchaseDate,
		PurchaseCost:            purchaseCost,
		SalvageValue:            salvageValue,
		UsefulLifeYears:         usefulLifeYears,
		Method:                  method,
		AccumulatedDepreciation: decimal.Zero,
		CurrentBookValue:        purchaseCost,
		Status:                  AssetStatusActive,
	}

	a.AddDomainEvent(NewAssetRegisteredEvent(a))

	return a, nil
}

// AssignNumber assigns the category-and-year scoped asset number.
// Called once by the service that owns the numbering sequence.
func (a *Asset) AssignNumber(categoryCode string, year, sequence int) error {
	if a.AssetNumber != "" {
		return shared.NewDomainError("INVALID_STATE", "Asset number is already assigned")
	}
	if sequence < 1 {
		return shared.NewDomainError("INVALID_SEQUENCE", "Asset sequence must be positive")
	}

	a.AssetNumber = FormatAssetNumber(categoryCode, year, sequence)

	return nil
}

// ResolveUsefulLife returns the per-asset override or the category
// default
func (a *Asset) ResolveUsefulLife(category *AssetCategory) int {
	if a.UsefulLifeYears != nil {
		return *a.UsefulLifeYears
	}
	return category.UsefulLifeYears
}

// ResolveMethod returns the per-asset override or the category default
func (a *Asset) ResolveMethod(category *AssetCategory) DepreciationMethod {
	if a.Method != nil {
		return *a.Method
	}
	return category.Method
}

// DepreciationInput builds the calculator input using resolved
// category defaults
func (a *Asset) DepreciationInput(category *AssetCategory) DepreciationInput {
	return DepreciationInput{
		PurchaseCost:    a.PurchaseCost,
		SalvageValue:    a.SalvageValue,
		UsefulLifeYears: a.ResolveUsefulLife(category),
		Method:          a.ResolveMethod(category),
		PurchaseDate:    a.PurchaseDate,
	}
}

// ApplyDepreciation records one period's depreciation against the
// asset. The amount must keep book value at or above salvage.
func (a *Asset) ApplyDepreciation(amount decimal.Decimal, periodDate time.Time) error {
	if !a.Status.CanDepreciate() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot depreciate asset in %s status", a.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Depreciation amount must be positive")
	}

	newAccumulated := a.AccumulatedDepreciation.Add(amount)
	if newAccumulated.GreaterThan(a.PurchaseCost.Sub(a.SalvageValue)) {
		return shared.NewDomainError("DEPRECIATION_FLOOR", "Depreciation would push book value below salvage")
	}

	a.AccumulatedDepreciation = newAccumulated
	a.CurrentBookValue = a.PurchaseCost.Sub(newAccumulated)
	a.LastDepreciationDate = &periodDate
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAssetDepreciatedEvent(a, amount, periodDate))

	return nil
}

// IsFullyDepreciated returns true once book value has reached salvage
func (a *Asset) IsFullyDepreciated() bool {
	return a.CurrentBookValue.LessThanOrEqual(a.SalvageValue)
}

// Dispose removes the asset from service and records the gain or loss
// against its book value at disposal.
func (a *Asset) Dispose(disposalDate time.Time, disposalAmount decimal.Decimal, method DisposalMethod) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Asset is already in %s status", a.Status))
	}
	if disposalDate.IsZero() {
		return shared.NewDomainError("INVALID_DISPOSAL_DATE", "Disposal date cannot be empty")
	}
	if disposalDate.Before(a.PurchaseDate) {
		return shared.NewDomainError("INVALID_DISPOSAL_DATE", "Disposal date cannot precede purchase date")
	}
	if disposalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Disposal amount cannot be negative")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_DISPOSAL_METHOD", fmt.Sprintf("Disposal method %q is not valid", method))
	}

	gainLoss := disposalAmount.Sub(a.CurrentBookValue)

	a.Status = method.terminalStatus()
	a.DisposalDate = &disposalDate
	a.DisposalAmount = &disposalAmount
	a.DisposalMethod = &method
	a.GainLoss = &gainLoss
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAssetDisposedEvent(a, gainLoss))

	return nil
}
