package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// AdvanceStatus represents the lifecycle state of a cash advance
type AdvanceStatus string

const (
	AdvanceStatusPending   AdvanceStatus = "PENDING"   // Requested, awaiting review
	AdvanceStatusApproved  AdvanceStatus = "APPROVED"  // Approved, not yet handed out
	AdvanceStatusPaid      AdvanceStatus = "PAID"      // Cash handed to the employee
	AdvanceStatusRecovered AdvanceStatus = "RECOVERED" // Cleared against a paid-out commission run
	AdvanceStatusRejected  AdvanceStatus = "REJECTED"
	AdvanceStatusCancelled AdvanceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid AdvanceStatus
func (s AdvanceStatus) IsValid() bool {
	switch s {
	case AdvanceStatusPending, AdvanceStatusApproved, AdvanceStatusPaid,
		AdvanceStatusRecovered, AdvanceStatusRejected, AdvanceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of AdvanceStatus
func (s AdvanceStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the advance can no longer change
func (s AdvanceStatus) IsTerminal() bool {
	return s == AdvanceStatusRecovered || s == AdvanceStatusRejected || s == AdvanceStatusCancelled
}

// IsOutstanding returns true for advances that reduce the employee's
// available commission balance
func (s AdvanceStatus) IsOutstanding() bool {
	return s == AdvanceStatusApproved || s == AdvanceStatusPaid
}

// CanTransitionTo checks the fixed transition table
func (s AdvanceStatus) CanTransitionTo(target AdvanceStatus) bool {
	switch s {
	case AdvanceStatusPending:
		return target == AdvanceStatusApproved || target == AdvanceStatusRejected || target == AdvanceStatusCancelled
	case AdvanceStatusApproved:
		return target == AdvanceStatusPaid || target == AdvanceStatusRecovered
	case AdvanceStatusPaid:
		return target == AdvanceStatusRecovered
	}
	return false
}

// Advance represents a cash payment to an employee drawn against
// commissions that have not been paid out yet.
type Advance struct {
	shared.BaseAggregateRoot
	EmployeeID          uuid.UUID        `json:"employee_id"`
	RequestedAmount     decimal.Decimal  `json:"requested_amount"`
	ApprovedAmount      *decimal.Decimal `json:"approved_amount"`
	AvailableCommission decimal.Decimal  `json:"available_commission"` // balance snapshot at request time
	AdvanceDate         time.Time        `json:"advance_date"`         // calendar day, one request per employee per day
	Reason              string           `json:"reason"`
	ReviewNote          string           `json:"review_note"`
	Status              AdvanceStatus    `json:"status"`
	PaidAt              *time.Time       `json:"paid_at"`
	RecoveredAt         *time.Time       `json:"recovered_at"`
}

// NewAdvance creates a pending advance request. The requested amount
// must fit within the employee's available commission balance.
func NewAdvance(employeeID uuid.UUID, requestedAmount, availableCommission decimal.Decimal, advanceDate time.Time, reason string) (*Advance, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if !requestedAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Requested amount must be positive")
	}
	if advanceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Advance date cannot be empty")
	}
	if requestedAmount.GreaterThan(availableCommission) {
		return nil, shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Requested %s exceeds available commission %s",
				requestedAmount.StringFixed(2), availableCommission.StringFixed(2)))
	}

	a := &Advance{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		EmployeeID:          employeeID,
		RequestedAmount:     requestedAmount,
		AvailableCommission: availableCommission,
		AdvanceDate:         advanceDate,
		Reason:              reason,
		Status:              AdvanceStatusPending,
	}

	a.AddDomainEvent(NewAdvanceRequestedEvent(a))

	return a, nil
}

// NewDirectAdvance creates an advance that a manager hands out on the
// spot: approved for the requested amount and already PAID.
func NewDirectAdvance(employeeID uuid.UUID, amount, availableCommission decimal.Decimal, advanceDate time.Time, reason string, paidAt time.Time) (*Advance, error) {
	a, err := NewAdvance(employeeID, amount, availableCommission, advanceDate, reason)
	if err != nil {
		return nil, err
	}

	approved := amount
	a.ApprovedAmount = &approved
	a.Status = AdvanceStatusPaid
	a.PaidAt = &paidAt

	return a, nil
}

// EffectiveAmount returns the amount counted against the employee's
// balance: the approved amount once reviewed, else the requested one.
func (a *Advance) EffectiveAmount() decimal.Decimal {
	if a.ApprovedAmount != nil {
		return *a.ApprovedAmount
	}
	return a.RequestedAmount
}

// transition validates and applies a status change
func (a *Advance) transition(target AdvanceStatus) error {
	if !a.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Advance cannot move from %s to %s", a.Status, target))
	}
	a.Status = target
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Approve accepts the request, possibly for a reduced amount
func (a *Advance) Approve(approvedAmount decimal.Decimal, note string) error {
	if !approvedAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Approved amount must be positive")
	}
	if approvedAmount.GreaterThan(a.RequestedAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Approved amount cannot exceed the requested amount")
	}
	if err := a.transition(AdvanceStatusApproved); err != nil {
		return err
	}
	a.ApprovedAmount = &approvedAmount
	a.ReviewNote = note
	return nil
}

// Reject declines the request
func (a *Advance) Reject(note string) error {
	if err := a.transition(AdvanceStatusRejected); err != nil {
		return err
	}
	a.ReviewNote = note
	return nil
}

// MarkPaid records that the cash was handed out
func (a *Advance) MarkPaid(paidAt time.Time) error {
	if err := a.transition(AdvanceStatusPaid); err != nil {
		return err
	}
	a.PaidAt = &paidAt
	a.AddDomainEvent(NewAdvancePaidEvent(a))
	return nil
}

// Cancel withdraws a pending request
func (a *Advance) Cancel() error {
	return a.transition(AdvanceStatusCancelled)
}

// Recover clears the advance against a commission payout
func (a *Advance) Recover(recoveredAt time.Time) error {
	if err := a.transition(AdvanceStatusRecovered); err != nil {
		return err
	}
	a.RecoveredAt = &recoveredAt
	a.AddDomainEvent(NewAdvanceRecoveredEvent(a))
	return nil
}

// AvailableBalance nets outstanding advances against commissions that
// still count toward advances, clamped at zero.
func AvailableBalance(commissions []Commission, advances []Advance) decimal.Decimal {
	earned := decimal.Zero
	for _, c := range commissions {
		if c.Status.CountsTowardAdvances() {
			earned = earned.Add(c.Amount)
		}
	}

	drawn := decimal.Zero
	for _, a := range advances {
		if a.Status.IsOutstanding() {
			drawn = drawn.Add(a.EffectiveAmount())
		}
	}

	balance := earned.Sub(drawn)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}
