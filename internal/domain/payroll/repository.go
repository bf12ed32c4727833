package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/shared"
)

// CommissionRateRepository is the repository interface for rate
// configuration
type CommissionRateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CommissionRate, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CommissionRate, error)
	Save(ctx context.Context, rate *CommissionRate) error
}

// CommissionRepository is the repository interface for commissions
type CommissionRepository interface {
	shared.Repository[Commission]
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Commission, error)
	FindByEmployeeAndStatuses(ctx context.Context, employeeID uuid.UUID, statuses []CommissionStatus) ([]Commission, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Commission, error)
}

// AdvanceRepository is the repository interface for cash advances
type AdvanceRepository interface {
	shared.Repository[Advance]
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Advance, error)
	FindOutstandingByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Advance, error)
	// ExistsForDay reports whether the employee already requested an
	// advance on the given calendar day.
	ExistsForDay(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error)
}

// TipRepository is the repository interface for tips
type TipRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tip, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Tip, error)
	Save(ctx context.Context, tip *Tip) error
}
