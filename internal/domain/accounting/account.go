package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/domain/shared/valueobject"
)

// AccountType classifies a ledger account and determines
// how debits and credits affect its balance
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// IsDebitNormal returns true for account types whose balance
// increases with debits (assets and expenses)
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// AccountCategory groups accounts for chart-of-accounts reporting
type AccountCategory struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewAccountCategory creates a new account category
func NewAccountCategory(name string, accountType AccountType, description string) (*AccountCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Account type %q is not valid", accountType))
	}
	return &AccountCategory{
		ID:          uuid.New(),
		Name:        name,
		AccountType: accountType,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// Account represents a ledger account aggregate root.
// DebitBalance and CreditBalance are running totals maintained by
// posting and reversing journal entries; Balance is derived from them
// according to the account type and is never edited directly.
type Account struct {
	shared.BaseAggregateRoot
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"account_type"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Description   string          `json:"description"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
}

// NewAccount creates a new ledger account with zero balances
func NewAccount(code, name string, accountType AccountType, categoryID *uuid.UUID, description string) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Account type %q is not valid", accountType))
	}

	a := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		AccountType:       accountType,
		CategoryID:        categoryID,
		Description:       description,
		DebitBalance:      decimal.Zero,
		CreditBalance:     decimal.Zero,
		Balance:           decimal.Zero,
		IsActive:          true,
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))

	return a, nil
}

// ApplyPosting adds a posted line's amounts to the running totals and
// recomputes the derived balance. Balances may go negative.
func (a *Account) ApplyPosting(debit, credit decimal.Decimal) error {
	if !a.IsActive {
		return shared.NewDomainError("ACCOUNT_INACTIVE", fmt.Sprintf("Account %s is inactive", a.Code))
	}

	a.DebitBalance = a.DebitBalance.Add(debit)
	a.CreditBalance = a.CreditBalance.Add(credit)
	a.recomputeBalance()

	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// UnapplyPosting removes a previously posted line's amounts from the
// running totals. Used when reversing a posted journal entry.
func (a *Account) UnapplyPosting(debit, credit decimal.Decimal) error {
	if !a.IsActive {
		return shared.NewDomainError("ACCOUNT_INACTIVE", fmt.Sprintf("Account %s is inactive", a.Code))
	}

	a.DebitBalance = a.DebitBalance.Sub(debit)
	a.CreditBalance = a.CreditBalance.Sub(credit)
	a.recomputeBalance()

	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// recomputeBalance derives the balance from the running totals.
// Debit-normal types carry debit - credit, the rest credit - debit.
func (a *Account) recomputeBalance() {
	if a.AccountType.IsDebitNormal() {
		a.Balance = a.DebitBalance.Sub(a.CreditBalance)
	} else {
		a.Balance = a.CreditBalance.Sub(a.DebitBalance)
	}
}

// Deactivate soft-disables the account. Accounts are never deleted
// because posted entries reference them.
func (a *Account) Deactivate() error {
	if !a.IsActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Account %s is already inactive", a.Code))
	}

	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountDeactivatedEvent(a))

	return nil
}

// GetBalanceMoney returns the derived balance as Money
func (a *Account) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.Balance)
}
