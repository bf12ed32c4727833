package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/payroll"
)

// CommissionRateModel is the persistence model for commission rate
// configuration. A NULL service_variant_id row is the employee default.
type CommissionRateModel struct {
	AggregateModel
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_rate_employee"`
	ServiceVariantID *uuid.UUID      `gorm:"type:uuid;index"`
	Rate             decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	IsActive         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CommissionRateModel) TableName() string {
	return "commission_rates"
}

// ToDomain converts the persistence model to a domain CommissionRate entity.
func (m *CommissionRateModel) ToDomain() *payroll.CommissionRate {
	return &payroll.CommissionRate{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EmployeeID:        m.EmployeeID,
		ServiceVariantID:  m.ServiceVariantID,
		Rate:              m.Rate,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain CommissionRate entity.
func (m *CommissionRateModel) FromDomain(r *payroll.CommissionRate) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.EmployeeID = r.EmployeeID
	m.ServiceVariantID = r.ServiceVariantID
	m.Rate = r.Rate
	m.IsActive = r.IsActive
}

// CommissionRateModelFromDomain creates a new persistence model from domain.
func CommissionRateModelFromDomain(r *payroll.CommissionRate) *CommissionRateModel {
	m := &CommissionRateModel{}
	m.FromDomain(r)
	return m
}

// CommissionModel is the persistence model for the Commission aggregate root.
type CommissionModel struct {
	AggregateModel
	EmployeeID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	JobID            uuid.UUID                `gorm:"type:uuid;not null;index"`
	JobLineID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	ServiceVariantID uuid.UUID                `gorm:"type:uuid;not null"`
	Rate             decimal.Decimal          `gorm:"type:decimal(7,4);not null"`
	ServiceAmount    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Status           payroll.CommissionStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Commission entity.
func (m *CommissionModel) ToDomain() *payroll.Commission {
	return &payroll.Commission{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EmployeeID:        m.EmployeeID,
		JobID:             m.JobID,
		JobLineID:         m.JobLineID,
		ServiceVariantID:  m.ServiceVariantID,
		Rate:              m.Rate,
		ServiceAmount:     m.ServiceAmount,
		Amount:            m.Amount,
		Status:            m.Status,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Commission entity.
func (m *CommissionModel) FromDomain(c *payroll.Commission) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.EmployeeID = c.EmployeeID
	m.JobID = c.JobID
	m.JobLineID = c.JobLineID
	m.ServiceVariantID = c.ServiceVariantID
	m.Rate = c.Rate
	m.ServiceAmount = c.ServiceAmount
	m.Amount = c.Amount
	m.Status = c.Status
	m.PaidAt = c.PaidAt
}

// CommissionModelFromDomain creates a new persistence model from domain.
func CommissionModelFromDomain(c *payroll.Commission) *CommissionModel {
	m := &CommissionModel{}
	m.FromDomain(c)
	return m
}

// AdvanceModel is the persistence model for the Advance aggregate root.
// The unique index on (employee_id, advance_date) enforces the one
// request per employee per calendar day rule at the database level.
type AdvanceModel struct {
	AggregateModel
	EmployeeID          uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_advance_employee_day,priority:1"`
	RequestedAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	ApprovedAmount      *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	AvailableCommission decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	AdvanceDate         time.Time             `gorm:"type:date;not null;uniqueIndex:idx_advance_employee_day,priority:2"`
	Reason              string                `gorm:"type:varchar(500)"`
	ReviewNote          string                `gorm:"type:varchar(500)"`
	Status              payroll.AdvanceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt              *time.Time
	RecoveredAt         *time.Time
}

// TableName returns the table name for GORM
func (AdvanceModel) TableName() string {
	return "advances"
}

// ToDomain converts the persistence model to a domain Advance entity.
func (m *AdvanceModel) ToDomain() *payroll.Advance {
	return &payroll.Advance{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		EmployeeID:          m.EmployeeID,
		RequestedAmount:     m.RequestedAmount,
		ApprovedAmount:      m.ApprovedAmount,
		AvailableCommission: m.AvailableCommission,
		AdvanceDate:         m.AdvanceDate,
		Reason:              m.Reason,
		ReviewNote:          m.ReviewNote,
		Status:              m.Status,
		PaidAt:              m.PaidAt,
		RecoveredAt:         m.RecoveredAt,
	}
}

// FromDomain populates the persistence model from a domain Advance entity.
func (m *AdvanceModel) FromDomain(a *payroll.Advance) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.EmployeeID = a.EmployeeID
	m.RequestedAmount = a.RequestedAmount
	m.ApprovedAmount = a.ApprovedAmount
	m.AvailableCommission = a.AvailableCommission
	m.AdvanceDate = a.AdvanceDate
	m.Reason = a.Reason
	m.ReviewNote = a.ReviewNote
	m.Status = a.Status
	m.PaidAt = a.PaidAt
	m.RecoveredAt = a.RecoveredAt
}

// AdvanceModelFromDomain creates a new persistence model from domain.
func AdvanceModelFromDomain(a *payroll.Advance) *AdvanceModel {
	m := &AdvanceModel{}
	m.FromDomain(a)
	return m
}

// TipModel is the persistence model for the Tip aggregate root.
type TipModel struct {
	AggregateModel
	EmployeeID uuid.UUID         `gorm:"type:uuid;not null;index"`
	JobID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Note       string            `gorm:"type:varchar(500)"`
	Status     payroll.TipStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (TipModel) TableName() string {
	return "tips"
}

// ToDomain converts the persistence model to a domain Tip entity.
func (m *TipModel) ToDomain() *payroll.Tip {
	return &payroll.Tip{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EmployeeID:        m.EmployeeID,
		JobID:             m.JobID,
		Amount:            m.Amount,
		Note:              m.Note,
		Status:            m.Status,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Tip entity.
func (m *TipModel) FromDomain(t *payroll.Tip) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.EmployeeID = t.EmployeeID
	m.JobID = t.JobID
	m.Amount = t.Amount
	m.Note = t.Note
	m.Status = t.Status
	m.PaidAt = t.PaidAt
}

// TipModelFromDomain creates a new persistence model from domain.
func TipModelFromDomain(t *payroll.Tip) *TipModel {
	m := &TipModel{}
	m.FromDomain(t)
	return m
}
