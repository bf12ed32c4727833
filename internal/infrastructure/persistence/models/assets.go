package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/assets"
)

// AssetCategoryModel is the persistence model for asset categories.
type AssetCategoryModel struct {
	AggregateModel
	Code               string                    `gorm:"type:varchar(10);not null;uniqueIndex:idx_asset_category_code"`
	Name               string                    `gorm:"type:varchar(100);not null"`
	Description        string                    `gorm:"type:varchar(500)"`
	UsefulLifeYears    int                       `gorm:"not null"`
	Method             assets.DepreciationMethod `gorm:"type:varchar(30);not null"`
	AssetAccountCode   string                    `gorm:"type:varchar(20);not null"`
	AccumAccountCode   string                    `gorm:"type:varchar(20);not null"`
	ExpenseAccountCode string                    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (AssetCategoryModel) TableName() string {
	return "asset_categories"
}

// ToDomain converts the persistence model to a domain AssetCategory entity.
func (m *AssetCategoryModel) ToDomain() *assets.AssetCategory {
	return &assets.AssetCategory{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		Code:               m.Code,
		Name:               m.Name,
		Description:        m.Description,
		UsefulLifeYears:    m.UsefulLifeYears,
		Method:             m.Method,
		AssetAccountCode:   m.AssetAccountCode,
		AccumAccountCode:   m.AccumAccountCode,
		ExpenseAccountCode: m.ExpenseAccountCode,
	}
}

// FromDomain populates the persistence model from a domain AssetCategory entity.
func (m *AssetCategoryModel) FromDomain(c *assets.AssetCategory) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Description = c.Description
	m.UsefulLifeYears = c.UsefulLifeYears
	m.Method = c.Method
	m.AssetAccountCode = c.AssetAccountCode
	m.AccumAccountCode = c.AccumAccountCode
	m.ExpenseAccountCode = c.ExpenseAccountCode
}

// AssetCategoryModelFromDomain creates a new persistence model from domain.
func AssetCategoryModelFromDomain(c *assets.AssetCategory) *AssetCategoryModel {
	m := &AssetCategoryModel{}
	m.FromDomain(c)
	return m
}

// AssetModel is the persistence model for the Asset aggregate root.
type AssetModel struct {
	AggregateModel
	AssetNumber             string                     `gorm:"type:varchar(30);not null;uniqueIndex:idx_asset_number"`
	Name                    string                     `gorm:"type:varchar(200);not null"`
	CategoryID              uuid.UUID                  `gorm:"type:uuid;not null;index"`
	SerialNumber            string                     `gorm:"type:varchar(100)"`
	PurchaseDate            time.Time                  `gorm:"not null"`
	PurchaseCost            decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	SalvageValue            decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	UsefulLifeYears         *int
	Method                  *assets.DepreciationMethod `gorm:"type:varchar(30)"`
	AccumulatedDepreciation decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	CurrentBookValue        decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	LastDepreciationDate    *time.Time
	Status                  assets.AssetStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	DisposalDate            *time.Time
	DisposalAmount          *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	DisposalMethod          *assets.DisposalMethod `gorm:"type:varchar(20)"`
	GainLoss                *decimal.Decimal       `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset entity.
func (m *AssetModel) ToDomain() *assets.Asset {
	return &assets.Asset{
		BaseAggregateRoot:       m.ToAggregateRoot(),
		AssetNumber:             m.AssetNumber,
		Name:                    m.Name,
		CategoryID:              m.CategoryID,
		SerialNumber:            m.SerialNumber,
		PurchaseDate:            m.PurchaseDate,
		PurchaseCost:            m.PurchaseCost,
		SalvageValue:            m.SalvageValue,
		UsefulLifeYears:         m.UsefulLifeYears,
		Method:                  m.Method,
		AccumulatedDepreciation: m.AccumulatedDepreciation,
		CurrentBookValue:        m.CurrentBookValue,
		LastDepreciationDate:    m.LastDepreciationDate,
		Status:                  m.Status,
		DisposalDate:            m.DisposalDate,
		DisposalAmount:          m.DisposalAmount,
		DisposalMethod:          m.DisposalMethod,
		GainLoss:                m.GainLoss,
	}
}

// FromDomain populates the persistence model from a domain Asset entity.
func (m *AssetModel) FromDomain(a *assets.Asset) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.AssetNumber = a.AssetNumber
	m.Name = a.Name
	m.CategoryID = a.CategoryID
	m.SerialNumber = a.SerialNumber
	m.PurchaseDate = a.PurchaseDate
	m.PurchaseCost = a.PurchaseCost
	m.SalvageValue = a.SalvageValue
	m.UsefulLifeYears = a.UsefulLifeYears
	m.Method = a.Method
	m.AccumulatedDepreciation = a.AccumulatedDepreciation
	m.CurrentBookValue = a.CurrentBookValue
	m.LastDepreciationDate = a.LastDepreciationDate
	m.Status = a.Status
	m.DisposalDate = a.DisposalDate
	m.DisposalAmount = a.DisposalAmount
	m.DisposalMethod = a.DisposalMethod
	m.GainLoss = a.GainLoss
}

// AssetModelFromDomain creates a new persistence model from domain.
func AssetModelFromDomain(a *assets.Asset) *AssetModel {
	m := &AssetModel{}
	m.FromDomain(a)
	return m
}

// DepreciationRecordModel is the persistence model for the append-only
// per-period audit rows. The unique index on (asset_id, period_year,
// period_month) makes each period idempotent.
type DepreciationRecordModel struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primary_key"`
	AssetID         uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_depreciation_period,priority:1"`
	PeriodYear      int                       `gorm:"not null;uniqueIndex:idx_depreciation_period,priority:2"`
	PeriodMonth     int                       `gorm:"not null;uniqueIndex:idx_depreciation_period,priority:3"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Method          assets.DepreciationMethod `gorm:"type:varchar(30);not null"`
	CostSnapshot    decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	SalvageSnapshot decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	LifeSnapshot    int                       `gorm:"not null"`
	BookValueAfter  decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	JournalEntryID  *uuid.UUID                `gorm:"type:uuid"`
	CreatedAt       time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DepreciationRecordModel) TableName() string {
	return "depreciation_records"
}

// ToDomain converts the persistence model to a domain DepreciationRecord.
func (m *DepreciationRecordModel) ToDomain() *assets.DepreciationRecord {
	return &assets.DepreciationRecord{
		ID:              m.ID,
		AssetID:         m.AssetID,
		PeriodYear:      m.PeriodYear,
		PeriodMonth:     m.PeriodMonth,
		Amount:          m.Amount,
		Method:          m.Method,
		CostSnapshot:    m.CostSnapshot,
		SalvageSnapshot: m.SalvageSnapshot,
		LifeSnapshot:    m.LifeSnapshot,
		BookValueAfter:  m.BookValueAfter,
		JournalEntryID:  m.JournalEntryID,
		CreatedAt:       m.CreatedAt,
	}
}

// DepreciationRecordModelFromDomain creates a new persistence model from domain.
func DepreciationRecordModelFromDomain(r *assets.DepreciationRecord) *DepreciationRecordModel {
	return &DepreciationRecordModel{
		ID:              r.ID,
		AssetID:         r.AssetID,
		PeriodYear:      r.PeriodYear,
		PeriodMonth:     r.PeriodMonth,
		Amount:          r.Amount,
		Method:          r.Method,
		CostSnapshot:    r.CostSnapshot,
		SalvageSnapshot: r.SalvageSnapshot,
		LifeSnapshot:    r.LifeSnapshot,
		BookValueAfter:  r.BookValueAfter,
		JournalEntryID:  r.JournalEntryID,
		CreatedAt:       r.CreatedAt,
	}
}
