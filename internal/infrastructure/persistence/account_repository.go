package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	var model models.AccountModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its unique code
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.Account, error) {
	var model models.AccountModel
	if err := dbFromContext(ctx, r.db).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByType finds all accounts of the given type
func (r *GormAccountRepository) FindByType(ctx context.Context, accountType accounting.AccountType) ([]accounting.Account, error) {
	var accountModels []models.AccountModel
	if err := dbFromContext(ctx, r.db).
		Where("account_type = ?", accountType).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindActive finds all active accounts ordered by code
func (r *GormAccountRepository) FindActive(ctx context.Context) ([]accounting.Account, error) {
	var accountModels []models.AccountModel
	if err := dbFromContext(ctx, r.db).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindAll finds accounts with filtering and pagination
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.Account, error) {
	var accountModels []models.AccountModel
	query := dbFromContext(ctx, r.db).Model(&models.AccountModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Count counts accounts matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.AccountModel{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an account with the given code exists
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&models.AccountModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	model := models.AccountModelFromDomain(account)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}

// Delete removes an account. Accounts referenced by posted entries are
// deactivated instead; this exists to satisfy the base interface.
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search, sorting, and pagination to the query
func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	sortField := ValidateSortField(filter.OrderBy, AccountSortFields, "code")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applySearch applies the search and field filters without pagination
func (r *GormAccountRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(code LIKE ? OR name LIKE ?)", searchPattern, searchPattern)
	}
	if accountType, ok := filter.Filters["account_type"]; ok {
		query = query.Where("account_type = ?", accountType)
	}
	if isActive, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", isActive)
	}
	return query
}

// GormAccountCategoryRepository implements AccountCategoryRepository using GORM
type GormAccountCategoryRepository struct {
	db *gorm.DB
}

// NewGormAccountCategoryRepository creates a new GormAccountCategoryRepository
func NewGormAccountCategoryRepository(db *gorm.DB) *GormAccountCategoryRepository {
	return &GormAccountCategoryRepository{db: db}
}

// FindByID finds an account category by its ID
func (r *GormAccountCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AccountCategory, error) {
	var model models.AccountCategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all account categories ordered by name
func (r *GormAccountCategoryRepository) FindAll(ctx context.Context) ([]accounting.AccountCategory, error) {
	var categoryModels []models.AccountCategoryModel
	if err := dbFromContext(ctx, r.db).
		Order("name ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]accounting.AccountCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates an account category
func (r *GormAccountCategoryRepository) Save(ctx context.Context, category *accounting.AccountCategory) error {
	model := models.AccountCategoryModelFromDomain(category)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}
