package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// CommissionRate configures the percentage an employee earns on a
// billed service line. A nil ServiceVariantID is the employee's
// default rate; variant-specific rates win during resolution.
type CommissionRate struct {
	shared.BaseAggregateRoot
	EmployeeID       uuid.UUID       `json:"employee_id"`
	ServiceVariantID *uuid.UUID      `json:"service_variant_id"`
	Rate             decimal.Decimal `json:"rate"` // percentage, e.g. 12.5
	IsActive         bool            `json:"is_active"`
}

// NewCommissionRate creates a new commission rate
func NewCommissionRate(employeeID uuid.UUID, serviceVariantID *uuid.UUID, rate decimal.Decimal) (*CommissionRate, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if serviceVariantID != nil && *serviceVariantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE_VARIANT", "Service variant ID cannot be the zero UUID")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Commission rate cannot be negative")
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Commission rate cannot exceed 100 percent")
	}

	return &CommissionRate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		ServiceVariantID:  serviceVariantID,
		Rate:              rate,
		IsActive:          true,
	}, nil
}

// IsDefault returns true for the employee's fallback rate
func (r *CommissionRate) IsDefault() bool {
	return r.ServiceVariantID == nil
}

// Deactivate disables the rate for future resolutions
func (r *CommissionRate) Deactivate() error {
	if !r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Commission rate is already inactive")
	}
	r.IsActive = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// ResolveRate picks the applicable rate from the employee's active
// rates: the variant-specific rate if one exists, else the default.
// Returns nil when the employee earns no commission on the variant.
func ResolveRate(rates []CommissionRate, serviceVariantID uuid.UUID) *CommissionRate {
	var fallback *CommissionRate
	for i := range rates {
		rate := &rates[i]
		if !rate.IsActive {
			continue
		}
		if rate.ServiceVariantID != nil && *rate.ServiceVariantID == serviceVariantID {
			return rate
		}
		if rate.IsDefault() && fallback == nil {
			fallback = rate
		}
	}
	return fallback
}
