package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/domain/shared"
)

func newTestAsset(t *testing.T, categoryID uuid.UUID, categoryCode string, year, sequence int) *assets.Asset {
	t.Helper()

	asset, err := assets.NewAsset(
		"Hydraulic Lift",
		categoryID,
		"SN-001",
		time.Date(year, 1, 10, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(12000),
		decimal.NewFromInt(0),
		nil, nil,
	)
	require.NoError(t, err)
	require.NoError(t, asset.AssignNumber(categoryCode, year, sequence))
	return asset
}

func TestGormAssetRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAssetRepository(db)
	ctx := context.Background()
	categoryID := uuid.New()

	t.Run("saves and finds asset by number", func(t *testing.T) {
		asset := newTestAsset(t, categoryID, "EQP", 2025, 1)
		require.NoError(t, repo.Save(ctx, asset))

		found, err := repo.FindByNumber(ctx, "EQP-2025-0001")
		require.NoError(t, err)
		assert.Equal(t, asset.ID, found.ID)
		assert.Equal(t, assets.AssetStatusActive, found.Status)
		assert.True(t, found.CurrentBookValue.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("rejects duplicate asset number", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newTestAsset(t, categoryID, "EQP", 2025, 2)))

		err := repo.Save(ctx, newTestAsset(t, categoryID, "EQP", 2025, 2))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("persists depreciation state on re-save", func(t *testing.T) {
		asset := newTestAsset(t, categoryID, "EQP", 2025, 3)
		require.NoError(t, repo.Save(ctx, asset))

		period := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, asset.ApplyDepreciation(decimal.NewFromInt(200), period))
		require.NoError(t, repo.Save(ctx, asset))

		found, err := repo.FindByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.True(t, found.AccumulatedDepreciation.Equal(decimal.NewFromInt(200)))
		assert.True(t, found.CurrentBookValue.Equal(decimal.NewFromInt(11800)))
		require.NotNil(t, found.LastDepreciationDate)
	})
}

func TestGormAssetRepository_MaxSequenceForCategoryYear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAssetRepository(db)
	ctx := context.Background()
	categoryID := uuid.New()

	t.Run("returns zero for an empty category year", func(t *testing.T) {
		seq, err := repo.MaxSequenceForCategoryYear(ctx, categoryID, 2025)
		require.NoError(t, err)
		assert.Equal(t, 0, seq)
	})

	t.Run("returns highest numeric suffix scoped to category and year", func(t *testing.T) {
		otherCategory := uuid.New()
		require.NoError(t, repo.Save(ctx, newTestAsset(t, categoryID, "VEH", 2025, 3)))
		require.NoError(t, repo.Save(ctx, newTestAsset(t, categoryID, "VEH", 2025, 12)))
		require.NoError(t, repo.Save(ctx, newTestAsset(t, categoryID, "VEH", 2024, 40)))
		require.NoError(t, repo.Save(ctx, newTestAsset(t, otherCategory, "EQP", 2025, 99)))

		seq, err := repo.MaxSequenceForCategoryYear(ctx, categoryID, 2025)
		require.NoError(t, err)
		assert.Equal(t, 12, seq)
	})
}

func TestGormAssetRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAssetRepository(db)
	ctx := context.Background()
	categoryID := uuid.New()

	active := newTestAsset(t, categoryID, "VEH", 2025, 1)
	require.NoError(t, repo.Save(ctx, active))

	disposed := newTestAsset(t, categoryID, "VEH", 2025, 2)
	require.NoError(t, disposed.Dispose(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(5000),
		assets.DisposalMethodSold,
	))
	require.NoError(t, repo.Save(ctx, disposed))

	result, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, active.ID, result[0].ID)
}

func TestGormAssetCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAssetCategoryRepository(db)
	ctx := context.Background()

	newCategory := func(t *testing.T, code string) *assets.AssetCategory {
		category, err := assets.NewAssetCategory(code, "Vehicles", "", 5, assets.MethodStraightLine, "1500", "1510", "6200")
		require.NoError(t, err)
		return category
	}

	t.Run("saves and finds category by code", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newCategory(t, "VEH")))

		found, err := repo.FindByCode(ctx, "VEH")
		require.NoError(t, err)
		assert.Equal(t, 5, found.UsefulLifeYears)
		assert.Equal(t, "1510", found.AccumAccountCode)
	})

	t.Run("rejects duplicate category code", func(t *testing.T) {
		err := repo.Save(ctx, newCategory(t, "VEH"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormDepreciationRecordRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDepreciationRecordRepository(db)
	ctx := context.Background()
	categoryID := uuid.New()

	asset := newTestAsset(t, categoryID, "EQP", 2025, 1)
	input := assets.DepreciationInput{
		PurchaseCost:    asset.PurchaseCost,
		SalvageValue:    asset.SalvageValue,
		UsefulLifeYears: 5,
		Method:          assets.MethodStraightLine,
		PurchaseDate:    asset.PurchaseDate,
	}

	newRecord := func(t *testing.T, year, month int) *assets.DepreciationRecord {
		record, err := assets.NewDepreciationRecord(asset, input, year, month, decimal.NewFromInt(200), nil)
		require.NoError(t, err)
		return record
	}

	t.Run("saves records and lists them in period order", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newRecord(t, 2025, 3)))
		require.NoError(t, repo.Save(ctx, newRecord(t, 2025, 2)))

		records, err := repo.FindByAsset(ctx, asset.ID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 2, records[0].PeriodMonth)
		assert.Equal(t, 3, records[1].PeriodMonth)
	})

	t.Run("ExistsForPeriod reflects saved records", func(t *testing.T) {
		exists, err := repo.ExistsForPeriod(ctx, asset.ID, 2025, 3)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForPeriod(ctx, asset.ID, 2025, 4)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects a second record for the same period", func(t *testing.T) {
		err := repo.Save(ctx, newRecord(t, 2025, 3))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}
