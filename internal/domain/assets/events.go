package assets

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// Event type constants for the assets domain
const (
	EventTypeAssetRegistered  = "assets.asset.registered"
	EventTypeAssetDepreciated = "assets.asset.depreciated"
	EventTypeAssetDisposed    = "assets.asset.disposed"
)

// AssetRegisteredEvent is raised when an asset is purchased and
// entered into service
type AssetRegisteredEvent struct {
	shared.BaseDomainEvent
	Name         string          `json:"name"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
}

// NewAssetRegisteredEvent creates a new AssetRegisteredEvent
func NewAssetRegisteredEvent(a *Asset) *AssetRegisteredEvent {
	return &AssetRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetRegistered, "Asset", a.ID),
		Name:            a.Name,
		PurchaseCost:    a.PurchaseCost,
	}
}

// AssetDepreciatedEvent is raised for each applied depreciation period
type AssetDepreciatedEvent struct {
	shared.BaseDomainEvent
	Amount     decimal.Decimal `json:"amount"`
	PeriodDate time.Time       `json:"period_date"`
	BookValue  decimal.Decimal `json:"book_value"`
}

// NewAssetDepreciatedEvent creates a new AssetDepreciatedEvent
func NewAssetDepreciatedEvent(a *Asset, amount decimal.Decimal, periodDate time.Time) *AssetDepreciatedEvent {
	return &AssetDepreciatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetDepreciated, "Asset", a.ID),
		Amount:          amount,
		PeriodDate:      periodDate,
		BookValue:       a.CurrentBookValue,
	}
}

// AssetDisposedEvent is raised when an asset is disposed or sold
type AssetDisposedEvent struct {
	shared.BaseDomainEvent
	AssetNumber string          `json:"asset_number"`
	GainLoss    decimal.Decimal `json:"gain_loss"`
}

// NewAssetDisposedEvent creates a new AssetDisposedEvent
func NewAssetDisposedEvent(a *Asset, gainLoss decimal.Decimal) *AssetDisposedEvent {
	return &AssetDisposedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetDisposed, "Asset", a.ID),
		AssetNumber:     a.AssetNumber,
		GainLoss:        gainLoss,
	}
}
