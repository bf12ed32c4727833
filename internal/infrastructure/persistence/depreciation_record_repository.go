package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDepreciationRecordRepository implements DepreciationRecordRepository
// using GORM. Records are append-only; there is no update or delete.
type GormDepreciationRecordRepository struct {
	db *gorm.DB
}

// NewGormDepreciationRecordRepository creates a new GormDepreciationRecordRepository
func NewGormDepreciationRecordRepository(db *gorm.DB) *GormDepreciationRecordRepository {
	return &GormDepreciationRecordRepository{db: db}
}

// Save inserts a new depreciation record or updates the journal entry
// link on an existing one
func (r *GormDepreciationRecordRepository) Save(ctx context.Context, record *assets.DepreciationRecord) error {
	model := models.DepreciationRecordModelFromDomain(record)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}

// FindByAsset returns the full depreciation history of an asset in
// period order
func (r *GormDepreciationRecordRepository) FindByAsset(ctx context.Context, assetID uuid.UUID) ([]assets.DepreciationRecord, error) {
	var recordModels []models.DepreciationRecordModel
	if err := dbFromContext(ctx, r.db).
		Where("asset_id = ?", assetID).
		Order("period_year ASC, period_month ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]assets.DepreciationRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// ExistsForPeriod reports whether the asset already has a record for
// the given period
func (r *GormDepreciationRecordRepository) ExistsForPeriod(ctx context.Context, assetID uuid.UUID, periodYear, periodMonth int) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&models.DepreciationRecordModel{}).
		Where("asset_id = ? AND period_year = ? AND period_month = ?", assetID, periodYear, periodMonth).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
