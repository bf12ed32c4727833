package assets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// DepreciationRecord is the append-only audit row written for each
// asset period. It snapshots the calculation inputs so past runs stay
// explainable after category or override changes. Never mutated.
type DepreciationRecord struct {
	ID              uuid.UUID          `json:"id"`
	AssetID         uuid.UUID          `json:"asset_id"`
	PeriodYear      int                `json:"period_year"`
	PeriodMonth     int                `json:"period_month"`
	Amount          decimal.Decimal    `json:"amount"`
	Method          DepreciationMethod `json:"method"`
	CostSnapshot    decimal.Decimal    `json:"cost_snapshot"`
	SalvageSnapshot decimal.Decimal    `json:"salvage_snapshot"`
	LifeSnapshot    int                `json:"life_snapshot"`
	BookValueAfter  decimal.Decimal    `json:"book_value_after"`
	JournalEntryID  *uuid.UUID         `json:"journal_entry_id"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewDepreciationRecord creates the audit row for one asset period
func NewDepreciationRecord(asset *Asset, in DepreciationInput, periodYear, periodMonth int,
	amount decimal.Decimal, journalEntryID *uuid.UUID) (*DepreciationRecord, error) {
	if periodMonth < 1 || periodMonth > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Depreciation amount must be positive")
	}

	return &DepreciationRecord{
		ID:              uuid.New(),
		AssetID:         asset.ID,
		PeriodYear:      periodYear,
		PeriodMonth:     periodMonth,
		Amount:          amount,
		Method:          in.Method,
		CostSnapshot:    in.PurchaseCost,
		SalvageSnapshot: in.SalvageValue,
		LifeSnapshot:    in.UsefulLifeYears,
		BookValueAfter:  asset.CurrentBookValue,
		JournalEntryID:  journalEntryID,
		CreatedAt:       time.Now(),
	}, nil
}
