package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// CommissionStatus represents the lifecycle state of a commission
type CommissionStatus string

const (
	CommissionStatusAvailable CommissionStatus = "AVAILABLE" // Earned, counts toward advances
	CommissionStatusPayable   CommissionStatus = "PAYABLE"   // Queued for the next payroll run
	CommissionStatusPaid      CommissionStatus = "PAID"      // Paid out
	CommissionStatusCancelled CommissionStatus = "CANCELLED" // Voided (e.g. job line refunded)
)

// IsValid checks if the status is a valid CommissionStatus
func (s CommissionStatus) IsValid() bool {
	switch s {
	case CommissionStatusAvailable, CommissionStatusPayable,
		CommissionStatusPaid, CommissionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CommissionStatus
func (s CommissionStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the commission can no longer change
func (s CommissionStatus) IsTerminal() bool {
	return s == CommissionStatusPaid || s == CommissionStatusCancelled
}

// CountsTowardAdvances returns true for statuses that back advances
func (s CommissionStatus) CountsTowardAdvances() bool {
	return s == CommissionStatusAvailable || s == CommissionStatusPayable
}

// CanTransitionTo checks the fixed transition table
func (s CommissionStatus) CanTransitionTo(target CommissionStatus) bool {
	switch s {
	case CommissionStatusAvailable:
		return target == CommissionStatusPayable || target == CommissionStatusCancelled
	case CommissionStatusPayable:
		return target == CommissionStatusPaid || target == CommissionStatusCancelled
	}
	return false
}

// Commission represents one employee's earning on one billed job line.
// Rate and service amount are snapshots; the amount is recomputed from
// them on every save.
type Commission struct {
	shared.BaseAggregateRoot
	EmployeeID       uuid.UUID        `json:"employee_id"`
	JobID            uuid.UUID        `json:"job_id"`
	JobLineID        uuid.UUID        `json:"job_line_id"`
	ServiceVariantID uuid.UUID        `json:"service_variant_id"`
	Rate             decimal.Decimal  `json:"rate"`
	ServiceAmount    decimal.Decimal  `json:"service_amount"`
	Amount           decimal.Decimal  `json:"amount"`
	Status           CommissionStatus `json:"status"`
	PaidAt           *time.Time       `json:"paid_at"`
}

// CommissionAmount computes service_amount * rate / 100 rounded
// half-up to two decimal places
func CommissionAmount(serviceAmount, rate decimal.Decimal) decimal.Decimal {
	return serviceAmount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// NewCommission creates a commission from a billed job line
func NewCommission(employeeID, jobID, jobLineID, serviceVariantID uuid.UUID, rate, serviceAmount decimal.Decimal) (*Commission, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if jobID == uuid.Nil || jobLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Job and job line IDs cannot be empty")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Commission rate cannot be negative")
	}
	if serviceAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Service amount cannot be negative")
	}

	c := &Commission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		JobID:             jobID,
		JobLineID:         jobLineID,
		ServiceVariantID:  serviceVariantID,
		Rate:              rate,
		ServiceAmount:     serviceAmount,
		Amount:            CommissionAmount(serviceAmount, rate),
		Status:            CommissionStatusAvailable,
	}

	c.AddDomainEvent(NewCommissionCreatedEvent(c))

	return c, nil
}

// Recalculate recomputes the amount from the stored snapshots.
// Invoked before every persistence so a stale amount can never stick.
func (c *Commission) Recalculate() {
	c.Amount = CommissionAmount(c.ServiceAmount, c.Rate)
}

// transition validates and applies a status change
func (c *Commission) transition(target CommissionStatus) error {
	if !c.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Commission cannot move from %s to %s", c.Status, target))
	}
	c.Status = target
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MarkPayable queues the commission for payout
func (c *Commission) MarkPayable() error {
	return c.transition(CommissionStatusPayable)
}

// MarkPaid records the payout
func (c *Commission) MarkPaid(paidAt time.Time) error {
	if err := c.transition(CommissionStatusPaid); err != nil {
		return err
	}
	c.PaidAt = &paidAt
	c.AddDomainEvent(NewCommissionPaidEvent(c))
	return nil
}

// Cancel voids the commission
func (c *Commission) Cancel() error {
	return c.transition(CommissionStatusCancelled)
}
