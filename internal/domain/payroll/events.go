package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// Event type constants for the payroll domain
const (
	EventTypeCommissionCreated = "payroll.commission.created"
	EventTypeCommissionPaid    = "payroll.commission.paid"
	EventTypeAdvanceRequested  = "payroll.advance.requested"
	EventTypeAdvancePaid       = "payroll.advance.paid"
	EventTypeAdvanceRecovered  = "payroll.advance.recovered"
)

// CommissionCreatedEvent is raised when a billed job line earns a
// commission
type CommissionCreatedEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
}

// NewCommissionCreatedEvent creates a new CommissionCreatedEvent
func NewCommissionCreatedEvent(c *Commission) *CommissionCreatedEvent {
	return &CommissionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionCreated, "Commission", c.ID),
		Amount:          c.Amount,
		Rate:            c.Rate,
	}
}

// CommissionPaidEvent is raised when a commission is paid out
type CommissionPaidEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal `json:"amount"`
}

// NewCommissionPaidEvent creates a new CommissionPaidEvent
func NewCommissionPaidEvent(c *Commission) *CommissionPaidEvent {
	return &CommissionPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionPaid, "Commission", c.ID),
		Amount:          c.Amount,
	}
}

// AdvanceRequestedEvent is raised when an employee requests an advance
type AdvanceRequestedEvent struct {
	shared.BaseDomainEvent
	RequestedAmount decimal.Decimal `json:"requested_amount"`
}

// NewAdvanceRequestedEvent creates a new AdvanceRequestedEvent
func NewAdvanceRequestedEvent(a *Advance) *AdvanceRequestedEvent {
	return &AdvanceRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceRequested, "Advance", a.ID),
		RequestedAmount: a.RequestedAmount,
	}
}

// AdvancePaidEvent is raised when advance cash is handed out
type AdvancePaidEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal `json:"amount"`
}

// NewAdvancePaidEvent creates a new AdvancePaidEvent
func NewAdvancePaidEvent(a *Advance) *AdvancePaidEvent {
	return &AdvancePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvancePaid, "Advance", a.ID),
		Amount:          a.EffectiveAmount(),
	}
}

// AdvanceRecoveredEvent is raised when an advance is cleared against
// a commission payout
type AdvanceRecoveredEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal `json:"amount"`
}

// NewAdvanceRecoveredEvent creates a new AdvanceRecoveredEvent
func NewAdvanceRecoveredEvent(a *Advance) *AdvanceRecoveredEvent {
	return &AdvanceRecoveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceRecovered, "Advance", a.ID),
		Amount:          a.EffectiveAmount(),
	}
}
