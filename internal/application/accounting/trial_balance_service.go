package accounting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportCache is the cache-aside store used for report payloads
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	trialBalanceCacheKey = "reports:trial-balance"
	trialBalanceCacheTTL = 5 * time.Minute
)

// TrialBalanceRow is one account's position in the report
type TrialBalanceRow struct {
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	AccountType   string          `json:"account_type"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Balance       decimal.Decimal `json:"balance"`
}

// TrialBalanceGroup rolls accounts up by type
type TrialBalanceGroup struct {
	AccountType string            `json:"account_type"`
	Rows        []TrialBalanceRow `json:"rows"`
	Total       decimal.Decimal   `json:"total"`
}

// TrialBalanceReport is the full roll-up
type TrialBalanceReport struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	Groups       []TrialBalanceGroup `json:"groups"`
	TotalDebits  decimal.Decimal     `json:"total_debits"`
	TotalCredits decimal.Decimal     `json:"total_credits"`
}

// TrialBalanceService produces the account roll-up report with a
// short cache in front of it
type TrialBalanceService struct {
	accounts accounting.AccountRepository
	cache    ReportCache
	clock    shared.Clock
	logger   *zap.Logger
}

// NewTrialBalanceService creates a new TrialBalanceService
func NewTrialBalanceService(
	accounts accounting.AccountRepository,
	cache ReportCache,
	clock shared.Clock,
	logger *zap.Logger,
) *TrialBalanceService {
	return &TrialBalanceService{
		accounts: accounts,
		cache:    cache,
		clock:    clock,
		logger:   logger,
	}
}

// GetTrialBalance returns the cached report when fresh, otherwise
// rebuilds it from account balances. Cache failures fall through to
// a rebuild.
func (s *TrialBalanceService) GetTrialBalance(ctx context.Context) (*TrialBalanceReport, error) {
	if cached, err := s.cache.Get(ctx, trialBalanceCacheKey); err == nil && cached != nil {
		var report TrialBalanceReport
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
		s.logger.Warn("discarding unreadable cached trial balance")
	}

	report, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, trialBalanceCacheKey, payload, trialBalanceCacheTTL); err != nil {
			s.logger.Warn("failed to cache trial balance", zap.Error(err))
		}
	}

	return report, nil
}

// Invalidate drops the cached report, called after postings
func (s *TrialBalanceService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, trialBalanceCacheKey); err != nil {
		s.logger.Warn("failed to invalidate trial balance cache", zap.Error(err))
	}
}

func (s *TrialBalanceService) build(ctx context.Context) (*TrialBalanceReport, error) {
	report := &TrialBalanceReport{
		GeneratedAt:  s.clock.Now(),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	types := []accounting.AccountType{
		accounting.AccountTypeAsset,
		accounting.AccountTypeLiability,
		accounting.AccountTypeEquity,
		accounting.AccountTypeRevenue,
		accounting.AccountTypeExpense,
	}

	for _, accountType := range types {
		accounts, err := s.accounts.FindByType(ctx, accountType)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s accounts: %w", accountType, err)
		}
		if len(accounts) == 0 {
			continue
		}

		group := TrialBalanceGroup{
			AccountType: accountType.String(),
			Rows:        make([]TrialBalanceRow, 0, len(accounts)),
			Total:       decimal.Zero,
		}
		for _, account := range accounts {
			group.Rows = append(group.Rows, TrialBalanceRow{
				AccountCode:   account.Code,
				AccountName:   account.Name,
				AccountType:   account.AccountType.String(),
				DebitBalance:  account.DebitBalance,
				CreditBalance: account.CreditBalance,
				Balance:       account.Balance,
			})
			group.Total = group.Total.Add(account.Balance)
			report.TotalDebits = report.TotalDebits.Add(account.DebitBalance)
			report.TotalCredits = report.TotalCredits.Add(account.CreditBalance)
		}
		report.Groups = append(report.Groups, group)
	}

	return report, nil
}
