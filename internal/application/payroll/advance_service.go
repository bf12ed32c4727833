package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdvanceService owns the advance request lifecycle and the
// available-balance check that guards it.
type AdvanceService struct {
	advances    payroll.AdvanceRepository
	commissions payroll.CommissionRepository
	tx          shared.TransactionManager
	clock       shared.Clock
	cache       ReportCache
	logger      *zap.Logger
}

// NewAdvanceService creates a new AdvanceService
func NewAdvanceService(
	advances payroll.AdvanceRepository,
	commissions payroll.CommissionRepository,
	tx shared.TransactionManager,
	clock shared.Clock,
	cache ReportCache,
	logger *zap.Logger,
) *AdvanceService {
	return &AdvanceService{
		advances:    advances,
		commissions: commissions,
		tx:          tx,
		clock:       clock,
		cache:       cache,
		logger:      logger,
	}
}

// RequestAdvanceRequest describes an employee's advance request
type RequestAdvanceRequest struct {
	EmployeeID uuid.UUID
	Amount     decimal.Decimal
	Reason     string
}

// RequestAdvance creates a PENDING advance. The requested amount is
// capped by the employee's available commission balance, and only one
// advance may be opened per employee per day.
func (s *AdvanceService) RequestAdvance(ctx context.Context, req RequestAdvanceRequest) (*payroll.Advance, error) {
	var advance *payroll.Advance
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		day := s.clock.Today()
		taken, err := s.advances.ExistsForDay(txCtx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to check daily advance: %w", err)
		}
		if taken {
			return shared.NewDomainError("DAILY_LIMIT", "Employee already has an advance for today")
		}

		available, err := s.availableBalance(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}

		advance, err = payroll.NewAdvance(req.EmployeeID, req.Amount, available, day, req.Reason)
		if err != nil {
			return err
		}
		return s.saveNewAdvance(txCtx, advance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("advance requested",
		zap.String("employee_id", req.EmployeeID.String()),
		zap.String("amount", req.Amount.StringFixed(2)))

	return advance, nil
}

// GiveAdvanceRequest describes a direct payout handed over on the spot
type GiveAdvanceRequest struct {
	EmployeeID uuid.UUID
	Amount     decimal.Decimal
	Reason     string
}

// GiveAdvance records a direct advance that was paid out immediately,
// skipping the review step. The same balance and daily caps apply.
func (s *AdvanceService) GiveAdvance(ctx context.Context, req GiveAdvanceRequest) (*payroll.Advance, error) {
	var advance *payroll.Advance
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		day := s.clock.Today()
		taken, err := s.advances.ExistsForDay(txCtx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to check daily advance: %w", err)
		}
		if taken {
			return shared.NewDomainError("DAILY_LIMIT", "Employee already has an advance for today")
		}

		available, err := s.availableBalance(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}

		advance, err = payroll.NewDirectAdvance(req.EmployeeID, req.Amount, available, day, req.Reason, s.clock.Now())
		if err != nil {
			return err
		}
		return s.saveNewAdvance(txCtx, advance)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, req.EmployeeID)

	s.logger.Info("direct advance paid",
		zap.String("employee_id", req.EmployeeID.String()),
		zap.String("amount", req.Amount.StringFixed(2)))

	return advance, nil
}

// ReviewAdvanceRequest carries the reviewer's decision
type ReviewAdvanceRequest struct {
	AdvanceID uuid.UUID
	Approve   bool
	// Amount optionally lowers the approved amount; nil approves the
	// requested amount in full. Ignored on rejection.
	Amount *decimal.Decimal
	Note   string
}

// ReviewAdvance approves or rejects a pending advance
func (s *AdvanceService) ReviewAdvance(ctx context.Context, req ReviewAdvanceRequest) (*payroll.Advance, error) {
	advance, err := s.loadAdvance(ctx, req.AdvanceID)
	if err != nil {
		return nil, err
	}

	if req.Approve {
		amount := advance.RequestedAmount
		if req.Amount != nil {
			amount = *req.Amount
		}
		if err := advance.Approve(amount, req.Note); err != nil {
			return nil, err
		}
	} else {
		if err := advance.Reject(req.Note); err != nil {
			return nil, err
		}
	}

	if err := s.advances.Save(ctx, advance); err != nil {
		return nil, fmt.Errorf("failed to save advance: %w", err)
	}

	s.invalidateSummary(ctx, advance.EmployeeID)

	return advance, nil
}

// PayAdvance hands the approved amount to the employee
func (s *AdvanceService) PayAdvance(ctx context.Context, id uuid.UUID) (*payroll.Advance, error) {
	advance, err := s.loadAdvance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := advance.MarkPaid(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.advances.Save(ctx, advance); err != nil {
		return nil, fmt.Errorf("failed to save advance: %w", err)
	}

	s.invalidateSummary(ctx, advance.EmployeeID)

	return advance, nil
}

// CancelAdvance withdraws a pending request
func (s *AdvanceService) CancelAdvance(ctx context.Context, id uuid.UUID) (*payroll.Advance, error) {
	advance, err := s.loadAdvance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := advance.Cancel(); err != nil {
		return nil, err
	}
	if err := s.advances.Save(ctx, advance); err != nil {
		return nil, fmt.Errorf("failed to save advance: %w", err)
	}

	s.invalidateSummary(ctx, advance.EmployeeID)

	return advance, nil
}

// GetAdvance loads one advance
func (s *AdvanceService) GetAdvance(ctx context.Context, id uuid.UUID) (*payroll.Advance, error) {
	return s.loadAdvance(ctx, id)
}

// ListByEmployee returns an employee's advances
func (s *AdvanceService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Advance, error) {
	advances, err := s.advances.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	return advances, nil
}

// GetAvailableBalance exposes the advance-eligible balance for an
// employee
func (s *AdvanceService) GetAvailableBalance(ctx context.Context, employeeID uuid.UUID) (decimal.Decimal, error) {
	return s.availableBalance(ctx, employeeID)
}

func (s *AdvanceService) availableBalance(ctx context.Context, employeeID uuid.UUID) (decimal.Decimal, error) {
	commissions, err := s.commissions.FindByEmployeeAndStatuses(ctx, employeeID,
		[]payroll.CommissionStatus{payroll.CommissionStatusAvailable, payroll.CommissionStatusPayable})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load commissions: %w", err)
	}
	advances, err := s.advances.FindOutstandingByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load outstanding advances: %w", err)
	}
	return payroll.AvailableBalance(commissions, advances), nil
}

// saveNewAdvance persists a freshly created advance. A concurrent
// request that slipped past the ExistsForDay read trips the
// (employee_id, advance_date) unique index here; that collision is
// the daily-limit rule firing, not a generic conflict.
func (s *AdvanceService) saveNewAdvance(ctx context.Context, advance *payroll.Advance) error {
	err := s.advances.Save(ctx, advance)
	if errors.Is(err, shared.ErrAlreadyExists) {
		return shared.NewDomainError("DAILY_LIMIT", "Employee already has an advance for today")
	}
	if err != nil {
		return fmt.Errorf("failed to save advance: %w", err)
	}
	return nil
}

func (s *AdvanceService) loadAdvance(ctx context.Context, id uuid.UUID) (*payroll.Advance, error) {
	advance, err := s.advances.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("ADVANCE_NOT_FOUND", "Advance not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load advance: %w", err)
	}
	return advance, nil
}

func (s *AdvanceService) invalidateSummary(ctx context.Context, employeeID uuid.UUID) {
	if err := s.cache.Delete(ctx, summaryCacheKey(employeeID)); err != nil {
		s.logger.Warn("failed to invalidate commission summary cache",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
	}
}

// TipService records tips handed to employees
type TipService struct {
	tips   payroll.TipRepository
	clock  shared.Clock
	logger *zap.Logger
}

// NewTipService creates a new TipService
func NewTipService(tips payroll.TipRepository, clock shared.Clock, logger *zap.Logger) *TipService {
	return &TipService{tips: tips, clock: clock, logger: logger}
}

// RecordTipRequest describes a tip received for a job
type RecordTipRequest struct {
	EmployeeID uuid.UUID
	JobID      uuid.UUID
	Amount     decimal.Decimal
	Note       string
}

// RecordTip registers a pending tip
func (s *TipService) RecordTip(ctx context.Context, req RecordTipRequest) (*payroll.Tip, error) {
	tip, err := payroll.NewTip(req.EmployeeID, req.JobID, req.Amount, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.tips.Save(ctx, tip); err != nil {
		return nil, fmt.Errorf("failed to save tip: %w", err)
	}
	return tip, nil
}

// PayTip hands the tip over to the employee
func (s *TipService) PayTip(ctx context.Context, id uuid.UUID) (*payroll.Tip, error) {
	tip, err := s.loadTip(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tip.MarkPaid(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.tips.Save(ctx, tip); err != nil {
		return nil, fmt.Errorf("failed to save tip: %w", err)
	}
	return tip, nil
}

// CancelTip voids a pending tip
func (s *TipService) CancelTip(ctx context.Context, id uuid.UUID) (*payroll.Tip, error) {
	tip, err := s.loadTip(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tip.Cancel(); err != nil {
		return nil, err
	}
	if err := s.tips.Save(ctx, tip); err != nil {
		return nil, fmt.Errorf("failed to save tip: %w", err)
	}
	return tip, nil
}

// ListTipsByEmployee returns an employee's tips
func (s *TipService) ListTipsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Tip, error) {
	tips, err := s.tips.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tips: %w", err)
	}
	return tips, nil
}

func (s *TipService) loadTip(ctx context.Context, id uuid.UUID) (*payroll.Tip, error) {
	tip, err := s.tips.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("TIP_NOT_FOUND", "Tip not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tip: %w", err)
	}
	return tip, nil
}
