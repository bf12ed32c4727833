package assets

import (
	"fmt"
	"time"

	"github.com/timax/backend/internal/domain/shared"
)

// AssetCategory configures the defaults and ledger accounts for a
// family of fixed assets (vehicles, lifts, diagnostic tools).
type AssetCategory struct {
	shared.BaseAggregateRoot
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	UsefulLifeYears int                `json:"useful_life_years"`
	Method          DepreciationMethod `json:"depreciation_method"`
	// Ledger account codes used when posting automatic entries
	AssetAccountCode   string `json:"asset_account_code"`
	AccumAccountCode   string `json:"accum_account_code"`
	ExpenseAccountCode string `json:"expense_account_code"`
}

// NewAssetCategory creates a new asset category
func NewAssetCategory(code, name, description string, usefulLifeYears int, method DepreciationMethod,
	assetAccountCode, accumAccountCode, expenseAccountCode string) (*AssetCategory, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_CODE", "Category code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_CODE", "Category code cannot exceed 10 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if usefulLifeYears < 1 {
		return nil, shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life must be at least one year")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Depreciation method %q is not valid", method))
	}
	if assetAccountCode == "" || accumAccountCode == "" || expenseAccountCode == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Category account codes cannot be empty")
	}

	return &AssetCategory{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               code,
		Name:               name,
		Description:        description,
		UsefulLifeYears:    usefulLifeYears,
		Method:             method,
		AssetAccountCode:   assetAccountCode,
		AccumAccountCode:   accumAccountCode,
		ExpenseAccountCode: expenseAccountCode,
	}, nil
}

// Touch bumps the update metadata after a field change
func (c *AssetCategory) Touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
