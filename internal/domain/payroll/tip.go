package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// TipStatus represents the lifecycle state of a tip
type TipStatus string

const (
	TipStatusPending   TipStatus = "PENDING"
	TipStatusPaid      TipStatus = "PAID"
	TipStatusCancelled TipStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TipStatus
func (s TipStatus) IsValid() bool {
	switch s {
	case TipStatusPending, TipStatusPaid, TipStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TipStatus
func (s TipStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the tip can no longer change
func (s TipStatus) IsTerminal() bool {
	return s == TipStatusPaid || s == TipStatusCancelled
}

// Tip is a customer gratuity earmarked for one employee on one job
type Tip struct {
	shared.BaseAggregateRoot
	EmployeeID uuid.UUID       `json:"employee_id"`
	JobID      uuid.UUID       `json:"job_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	Status     TipStatus       `json:"status"`
	PaidAt     *time.Time      `json:"paid_at"`
}

// NewTip creates a pending tip
func NewTip(employeeID, jobID uuid.UUID, amount decimal.Decimal, note string) (*Tip, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Job ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Tip amount must be positive")
	}

	return &Tip{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		JobID:             jobID,
		Amount:            amount,
		Note:              note,
		Status:            TipStatusPending,
	}, nil
}

// MarkPaid records the payout
func (t *Tip) MarkPaid(paidAt time.Time) error {
	if t.Status != TipStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay tip in %s status", t.Status))
	}
	t.Status = TipStatusPaid
	t.PaidAt = &paidAt
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Cancel voids a pending tip
func (t *Tip) Cancel() error {
	if t.Status != TipStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel tip in %s status", t.Status))
	}
	t.Status = TipStatusCancelled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}
