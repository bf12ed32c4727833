package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.Asset, error) {
	var model models.AssetModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an asset by its unique asset number
func (r *GormAssetRepository) FindByNumber(ctx context.Context, assetNumber string) (*assets.Asset, error) {
	var model models.AssetModel
	if err := dbFromContext(ctx, r.db).First(&model, "asset_number = ?", assetNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all assets still subject to monthly depreciation
func (r *GormAssetRepository) FindActive(ctx context.Context) ([]assets.Asset, error) {
	var assetModels []models.AssetModel
	if err := dbFromContext(ctx, r.db).
		Where("status = ?", assets.AssetStatusActive).
		Order("asset_number ASC").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}
	result := make([]assets.Asset, len(assetModels))
	for i, model := range assetModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// MaxSequenceForCategoryYear returns the highest asset-number sequence
// used for the category in the given year, or 0. The sequence is the
// numeric suffix of the asset number, parsed here because the number
// is stored as a single formatted string.
func (r *GormAssetRepository) MaxSequenceForCategoryYear(ctx context.Context, categoryID uuid.UUID, year int) (int, error) {
	var numbers []string
	if err := dbFromContext(ctx, r.db).Model(&models.AssetModel{}).
		Where("category_id = ? AND asset_number LIKE ?", categoryID, fmt.Sprintf("%%-%d-%%", year)).
		Pluck("asset_number", &numbers).Error; err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, number := range numbers {
		idx := strings.LastIndex(number, "-")
		if idx < 0 {
			continue
		}
		seq, err := strconv.Atoi(number[idx+1:])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

// FindAll finds assets with filtering and pagination
func (r *GormAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assets.Asset, error) {
	var assetModels []models.AssetModel
	query := dbFromContext(ctx, r.db).Model(&models.AssetModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&assetModels).Error; err != nil {
		return nil, err
	}
	result := make([]assets.Asset, len(assetModels))
	for i, model := range assetModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Count counts assets matching the filter
func (r *GormAssetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.AssetModel{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, asset *assets.Asset) error {
	model := models.AssetModelFromDomain(asset)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}

// Delete removes an asset
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.AssetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search, sorting, and pagination to the query
func (r *GormAssetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	sortField := ValidateSortField(filter.OrderBy, AssetSortFields, "asset_number")
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
func (r *GormAssetRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(asset_number LIKE ? OR name LIKE ? OR serial_number LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	return query
}

// GormAssetCategoryRepository implements AssetCategoryRepository using GORM
type GormAssetCategoryRepository struct {
	db *gorm.DB
}

// NewGormAssetCategoryRepository creates a new GormAssetCategoryRepository
func NewGormAssetCategoryRepository(db *gorm.DB) *GormAssetCategoryRepository {
	return &GormAssetCategoryRepository{db: db}
}

// FindByID finds an asset category by its ID
func (r *GormAssetCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.AssetCategory, error) {
	var model models.AssetCategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an asset category by its unique code
func (r *GormAssetCategoryRepository) FindByCode(ctx context.Context, code string) (*assets.AssetCategory, error) {
	var model models.AssetCategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all asset categories ordered by code
func (r *GormAssetCategoryRepository) FindAll(ctx context.Context) ([]assets.AssetCategory, error) {
	var categoryModels []models.AssetCategoryModel
	if err := dbFromContext(ctx, r.db).
		Order("code ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]assets.AssetCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates an asset category
func (r *GormAssetCategoryRepository) Save(ctx context.Context, category *assets.AssetCategory) error {
	model := models.AssetCategoryModelFromDomain(category)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}
