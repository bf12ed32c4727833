package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportCache is the cache-aside store used for summary payloads
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const summaryCacheTTL = 2 * time.Minute

func summaryCacheKey(employeeID uuid.UUID) string {
	return "reports:commission-summary:" + employeeID.String()
}

// CommissionService owns commission creation, payout transitions and
// the per-employee summary.
type CommissionService struct {
	commissions payroll.CommissionRepository
	rates       payroll.CommissionRateRepository
	advances    payroll.AdvanceRepository
	tx          shared.TransactionManager
	clock       shared.Clock
	cache       ReportCache
	logger      *zap.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	commissions payroll.CommissionRepository,
	rates payroll.CommissionRateRepository,
	advances payroll.AdvanceRepository,
	tx shared.TransactionManager,
	clock shared.Clock,
	cache ReportCache,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		commissions: commissions,
		rates:       rates,
		advances:    advances,
		tx:          tx,
		clock:       clock,
		cache:       cache,
		logger:      logger,
	}
}

// BilledLineRequest carries the job line data the sales layer hands
// over when a line is billed
type BilledLineRequest struct {
	EmployeeID       uuid.UUID
	JobID            uuid.UUID
	JobLineID        uuid.UUID
	ServiceVariantID uuid.UUID
	ServiceAmount    decimal.Decimal
}

// CreateFromBilledLine resolves the employee's rate and creates the
// commission. Returns (nil, nil) when no active rate applies: the
// employee simply earns nothing on this line.
func (s *CommissionService) CreateFromBilledLine(ctx context.Context, req BilledLineRequest) (*payroll.Commission, error) {
	rates, err := s.rates.FindByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commission rates: %w", err)
	}

	rate := payroll.ResolveRate(rates, req.ServiceVariantID)
	if rate == nil {
		s.logger.Debug("no commission rate for employee",
			zap.String("employee_id", req.EmployeeID.String()),
			zap.String("service_variant_id", req.ServiceVariantID.String()))
		return nil, nil
	}

	commission, err := payroll.NewCommission(req.EmployeeID, req.JobID, req.JobLineID,
		req.ServiceVariantID, rate.Rate, req.ServiceAmount)
	if err != nil {
		return nil, err
	}

	commission.Recalculate()
	if err := s.commissions.Save(ctx, commission); err != nil {
		return nil, fmt.Errorf("failed to save commission: %w", err)
	}

	s.invalidateSummary(ctx, req.EmployeeID)

	return commission, nil
}

// ListByEmployee returns an employee's commissions
func (s *CommissionService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Commission, error) {
	commissions, err := s.commissions.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return commissions, nil
}

// MarkPayable moves the given commissions from AVAILABLE to PAYABLE
// in one transaction.
func (s *CommissionService) MarkPayable(ctx context.Context, ids []uuid.UUID) ([]payroll.Commission, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No commission IDs given")
	}

	var updated []payroll.Commission
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		commissions, err := s.loadAll(txCtx, ids)
		if err != nil {
			return err
		}
		for i := range commissions {
			if err := commissions[i].MarkPayable(); err != nil {
				return err
			}
			commissions[i].Recalculate()
			if err := s.commissions.Save(txCtx, &commissions[i]); err != nil {
				return fmt.Errorf("failed to save commission: %w", err)
			}
		}
		updated = commissions
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range updated {
		s.invalidateSummary(ctx, c.EmployeeID)
	}

	return updated, nil
}

// MarkPaid pays out the given commissions and, for every affected
// employee, recovers all outstanding advances in the same
// transaction. Advances are settled against the payroll run as a
// whole, not reconciled one by one.
func (s *CommissionService) MarkPaid(ctx context.Context, ids []uuid.UUID) ([]payroll.Commission, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No commission IDs given")
	}

	var updated []payroll.Commission
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		commissions, err := s.loadAll(txCtx, ids)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		employees := make(map[uuid.UUID]struct{})
		for i := range commissions {
			if err := commissions[i].MarkPaid(now); err != nil {
				return err
			}
			commissions[i].Recalculate()
			if err := s.commissions.Save(txCtx, &commissions[i]); err != nil {
				return fmt.Errorf("failed to save commission: %w", err)
			}
			employees[commissions[i].EmployeeID] = struct{}{}
		}

		for employeeID := range employees {
			if err := s.recoverAdvances(txCtx, employeeID, now); err != nil {
				return err
			}
		}

		updated = commissions
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range updated {
		s.invalidateSummary(ctx, c.EmployeeID)
	}

	return updated, nil
}

// recoverAdvances clears every APPROVED/PAID advance of the employee
func (s *CommissionService) recoverAdvances(ctx context.Context, employeeID uuid.UUID, now time.Time) error {
	outstanding, err := s.advances.FindOutstandingByEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to load outstanding advances: %w", err)
	}

	for i := range outstanding {
		if err := outstanding[i].Recover(now); err != nil {
			return err
		}
		if err := s.advances.Save(ctx, &outstanding[i]); err != nil {
			return fmt.Errorf("failed to save advance: %w", err)
		}
	}

	if len(outstanding) > 0 {
		s.logger.Info("advances recovered against payout",
			zap.String("employee_id", employeeID.String()),
			zap.Int("count", len(outstanding)))
	}

	return nil
}

// Cancel voids a commission
func (s *CommissionService) Cancel(ctx context.Context, id uuid.UUID) (*payroll.Commission, error) {
	commission, err := s.commissions.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("COMMISSION_NOT_FOUND", "Commission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load commission: %w", err)
	}
	if err := commission.Cancel(); err != nil {
		return nil, err
	}
	commission.Recalculate()
	if err := s.commissions.Save(ctx, commission); err != nil {
		return nil, fmt.Errorf("failed to save commission: %w", err)
	}

	s.invalidateSummary(ctx, commission.EmployeeID)

	return commission, nil
}

// EmployeeSummary aggregates an employee's commission position
type EmployeeSummary struct {
	EmployeeID          uuid.UUID       `json:"employee_id"`
	AvailableTotal      decimal.Decimal `json:"available_total"`
	PayableTotal        decimal.Decimal `json:"payable_total"`
	PaidTotal           decimal.Decimal `json:"paid_total"`
	OutstandingAdvances decimal.Decimal `json:"outstanding_advances"`
	AvailableBalance    decimal.Decimal `json:"available_balance"`
}

// GetSummary returns the cached per-employee summary, rebuilding it
// on a miss.
func (s *CommissionService) GetSummary(ctx context.Context, employeeID uuid.UUID) (*EmployeeSummary, error) {
	key := summaryCacheKey(employeeID)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		var summary EmployeeSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
	}

	summary, err := s.buildSummary(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, payload, summaryCacheTTL); err != nil {
			s.logger.Warn("failed to cache commission summary", zap.Error(err))
		}
	}

	return summary, nil
}

func (s *CommissionService) buildSummary(ctx context.Context, employeeID uuid.UUID) (*EmployeeSummary, error) {
	commissions, err := s.commissions.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commissions: %w", err)
	}
	advances, err := s.advances.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load advances: %w", err)
	}

	summary := &EmployeeSummary{
		EmployeeID:          employeeID,
		AvailableTotal:      decimal.Zero,
		PayableTotal:        decimal.Zero,
		PaidTotal:           decimal.Zero,
		OutstandingAdvances: decimal.Zero,
	}

	for _, c := range commissions {
		switch c.Status {
		case payroll.CommissionStatusAvailable:
			summary.AvailableTotal = summary.AvailableTotal.Add(c.Amount)
		case payroll.CommissionStatusPayable:
			summary.PayableTotal = summary.PayableTotal.Add(c.Amount)
		case payroll.CommissionStatusPaid:
			summary.PaidTotal = summary.PaidTotal.Add(c.Amount)
		}
	}
	for _, a := range advances {
		if a.Status.IsOutstanding() {
			summary.OutstandingAdvances = summary.OutstandingAdvances.Add(a.EffectiveAmount())
		}
	}

	summary.AvailableBalance = payroll.AvailableBalance(commissions, advances)

	return summary, nil
}

func (s *CommissionService) invalidateSummary(ctx context.Context, employeeID uuid.UUID) {
	if err := s.cache.Delete(ctx, summaryCacheKey(employeeID)); err != nil {
		s.logger.Warn("failed to invalidate commission summary cache",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
	}
}

func (s *CommissionService) loadAll(ctx context.Context, ids []uuid.UUID) ([]payroll.Commission, error) {
	commissions, err := s.commissions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load commissions: %w", err)
	}
	if len(commissions) != len(ids) {
		return nil, shared.NewDomainError("COMMISSION_NOT_FOUND", "One or more commissions not found")
	}
	return commissions, nil
}

// CreateRateRequest describes a new commission rate
type CreateRateRequest struct {
	EmployeeID       uuid.UUID
	ServiceVariantID *uuid.UUID
	Rate             decimal.Decimal
}

// CreateRate configures a commission rate for an employee
func (s *CommissionService) CreateRate(ctx context.Context, req CreateRateRequest) (*payroll.CommissionRate, error) {
	rate, err := payroll.NewCommissionRate(req.EmployeeID, req.ServiceVariantID, req.Rate)
	if err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save commission rate: %w", err)
	}
	return rate, nil
}

// ListRates returns an employee's configured rates
func (s *CommissionService) ListRates(ctx context.Context, employeeID uuid.UUID) ([]payroll.CommissionRate, error) {
	rates, err := s.rates.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rates: %w", err)
	}
	return rates, nil
}
