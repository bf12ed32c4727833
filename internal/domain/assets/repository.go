package assets

import (
	"context"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/shared"
)

// AssetCategoryRepository is the repository interface for asset
// categories
type AssetCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AssetCategory, error)
	FindByCode(ctx context.Context, code string) (*AssetCategory, error)
	FindAll(ctx context.Context) ([]AssetCategory, error)
	Save(ctx context.Context, category *AssetCategory) error
}

// AssetRepository is the repository interface for fixed assets
type AssetRepository interface {
	shared.Repository[Asset]
	FindByNumber(ctx context.Context, assetNumber string) (*Asset, error)
	FindActive(ctx context.Context) ([]Asset, error)
	// MaxSequenceForCategoryYear returns the highest asset-number
	// sequence used for the category in the given year, or 0.
	MaxSequenceForCategoryYear(ctx context.Context, categoryID uuid.UUID, year int) (int, error)
}

// DepreciationRecordRepository is the repository interface for the
// per-period audit rows
type DepreciationRecordRepository interface {
	Save(ctx context.Context, record *DepreciationRecord) error
	FindByAsset(ctx context.Context, assetID uuid.UUID) ([]DepreciationRecord, error)
	ExistsForPeriod(ctx context.Context, assetID uuid.UUID, periodYear, periodMonth int) (bool, error)
}
