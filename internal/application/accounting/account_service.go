package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService manages the chart of accounts
type AccountService struct {
	accounts   accounting.AccountRepository
	categories accounting.AccountCategoryRepository
	logger     *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accounts accounting.AccountRepository,
	categories accounting.AccountCategoryRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts:   accounts,
		categories: categories,
		logger:     logger,
	}
}

// CreateAccountRequest describes a new ledger account
type CreateAccountRequest struct {
	Code        string
	Name        string
	AccountType accounting.AccountType
	CategoryID  *uuid.UUID
	Description string
}

// CreateAccount adds an account to the chart of accounts
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*accounting.Account, error) {
	exists, err := s.accounts.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Account code %s is already in use", req.Code))
	}

	if req.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *req.CategoryID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Account category not found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load account category: %w", err)
		}
		if category.AccountType != req.AccountType {
			return nil, shared.NewDomainError("INVALID_CATEGORY",
				fmt.Sprintf("Category %s holds %s accounts", category.Name, category.AccountType))
		}
	}

	account, err := accounting.NewAccount(req.Code, req.Name, req.AccountType, req.CategoryID, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.Info("account created",
		zap.String("code", account.Code),
		zap.String("type", account.AccountType.String()))

	return account, nil
}

// GetAccount loads one account
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// ListAccounts returns a page of accounts
func (s *AccountService) ListAccounts(ctx context.Context, filter shared.Filter) (*shared.Paginated[accounting.Account], error) {
	items, err := s.accounts.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	total, err := s.accounts.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeactivateAccount soft-disables an account
func (s *AccountService) DeactivateAccount(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := account.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}

// CreateCategory adds an account category
func (s *AccountService) CreateCategory(ctx context.Context, name string, accountType accounting.AccountType, description string) (*accounting.AccountCategory, error) {
	category, err := accounting.NewAccountCategory(name, accountType, description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save account category: %w", err)
	}
	return category, nil
}

// ListCategories returns every account category
func (s *AccountService) ListCategories(ctx context.Context) ([]accounting.AccountCategory, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list account categories: %w", err)
	}
	return categories, nil
}
