package assets

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategory(t *testing.T) *AssetCategory {
	t.Helper()
	category, err := NewAssetCategory("VEH", "Vehicles", "Shop trucks and loaners",
		5, MethodStraightLine, "1500", "1510", "6200")
	require.NoError(t, err)
	return category
}

func testAsset(t *testing.T, category *AssetCategory) *Asset {
	t.Helper()
	asset, err := NewAsset("Tow truck", category.ID, "VIN-123",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		dec("10000"), dec("1000"), nil, nil)
	require.NoError(t, err)
	return asset
}

func TestNewAssetCategory(t *testing.T) {
	category := testCategory(t)
	assert.Equal(t, "VEH", category.Code)
	assert.Equal(t, 5, category.UsefulLifeYears)

	_, err := NewAssetCategory("", "Vehicles", "", 5, MethodStraightLine, "1500", "1510", "6200")
	assert.Error(t, err)

	_, err = NewAssetCategory("VEH", "Vehicles", "", 0, MethodStraightLine, "1500", "1510", "6200")
	assert.Error(t, err)

	_, err = NewAssetCategory("VEH", "Vehicles", "", 5, DepreciationMethod("SUDDEN"), "1500", "1510", "6200")
	assert.Error(t, err)

	_, err = NewAssetCategory("VEH", "Vehicles", "", 5, MethodStraightLine, "", "1510", "6200")
	assert.Error(t, err)
}

func TestFormatAssetNumber(t *testing.T) {
	assert.Equal(t, "VEH-2025-0001", FormatAssetNumber("VEH", 2025, 1))
	assert.Equal(t, "TOOL-2026-0042", FormatAssetNumber("TOOL", 2026, 42))
}

func TestNewAsset(t *testing.T) {
	category := testCategory(t)

	t.Run("starts active at full book value", func(t *testing.T) {
		asset := testAsset(t, category)
		assert.Equal(t, AssetStatusActive, asset.Status)
		assert.True(t, asset.AccumulatedDepreciation.IsZero())
		assert.Equal(t, "10000.00", asset.CurrentBookValue.StringFixed(2))
	})

	t.Run("rejects salvage above cost", func(t *testing.T) {
		_, err := NewAsset("Lift", category.ID, "", time.Now(), dec("1000"), dec("2000"), nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects zero cost", func(t *testing.T) {
		_, err := NewAsset("Lift", category.ID, "", time.Now(), decimal.Zero, decimal.Zero, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid method override", func(t *testing.T) {
		bad := DepreciationMethod("SUDDEN")
		_, err := NewAsset("Lift", category.ID, "", time.Now(), dec("1000"), decimal.Zero, nil, &bad)
		assert.Error(t, err)
	})
}

func TestAssetResolveOverrides(t *testing.T) {
	category := testCategory(t)

	t.Run("falls back to category defaults", func(t *testing.T) {
		asset := testAsset(t, category)
		assert.Equal(t, 5, asset.ResolveUsefulLife(category))
		assert.Equal(t, MethodStraightLine, asset.ResolveMethod(category))
	})

	t.Run("override wins", func(t *testing.T) {
		life := 3
		method := MethodDoubleDeclining
		asset, err := NewAsset("Scanner", category.ID, "", time.Now(), dec("1000"), decimal.Zero, &life, &method)
		require.NoError(t, err)
		assert.Equal(t, 3, asset.ResolveUsefulLife(category))
		assert.Equal(t, MethodDoubleDeclining, asset.ResolveMethod(category))
	})
}

func TestAssetApplyDepreciation(t *testing.T) {
	category := testCategory(t)

	t.Run("updates accumulated and book value", func(t *testing.T) {
		asset := testAsset(t, category)
		period := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, asset.ApplyDepreciation(dec("150.00"), period))
		assert.Equal(t, "150.00", asset.AccumulatedDepreciation.StringFixed(2))
		assert.Equal(t, "9850.00", asset.CurrentBookValue.StringFixed(2))
		require.NotNil(t, asset.LastDepreciationDate)
		assert.Equal(t, period, *asset.LastDepreciationDate)
	})

	t.Run("rejects amount breaking the salvage floor", func(t *testing.T) {
		asset := testAsset(t, category)
		err := asset.ApplyDepreciation(dec("9500.00"), time.Now())
		assert.Error(t, err)
		assert.Equal(t, "10000.00", asset.CurrentBookValue.StringFixed(2))
	})

	t.Run("rejects depreciation on disposed asset", func(t *testing.T) {
		asset := testAsset(t, category)
		require.NoError(t, asset.Dispose(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), dec("8000"), DisposalMethodSold))
		assert.Error(t, asset.ApplyDepreciation(dec("100"), time.Now()))
	})
}

func TestAssetDispose(t *testing.T) {
	category := testCategory(t)
	disposalDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("gain when proceeds exceed book value", func(t *testing.T) {
		asset := testAsset(t, category)
		require.NoError(t, asset.ApplyDepreciation(dec("5000.00"), time.Now()))

		require.NoError(t, asset.Dispose(disposalDate, dec("7000"), DisposalMethodSold))
		assert.Equal(t, AssetStatusSold, asset.Status)
		require.NotNil(t, asset.GainLoss)
		assert.Equal(t, "2000.00", asset.GainLoss.StringFixed(2))
	})

	t.Run("loss when proceeds below book value", func(t *testing.T) {
		asset := testAsset(t, category)
		require.NoError(t, asset.ApplyDepreciation(dec("5000.00"), time.Now()))

		require.NoError(t, asset.Dispose(disposalDate, dec("3000"), DisposalMethodScrapped))
		assert.Equal(t, AssetStatusDisposed, asset.Status)
		require.NotNil(t, asset.GainLoss)
		assert.Equal(t, "-2000.00", asset.GainLoss.StringFixed(2))
	})

	t.Run("disposal is terminal", func(t *testing.T) {
		asset := testAsset(t, category)
		require.NoError(t, asset.Dispose(disposalDate, decimal.Zero, DisposalMethodScrapped))
		assert.Error(t, asset.Dispose(disposalDate, decimal.Zero, DisposalMethodScrapped))
	})

	t.Run("rejects disposal before purchase", func(t *testing.T) {
		asset := testAsset(t, category)
		err := asset.Dispose(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), decimal.Zero, DisposalMethodScrapped)
		assert.Error(t, err)
	})
}

func TestAssetAssignNumber(t *testing.T) {
	asset := testAsset(t, testCategory(t))

	require.NoError(t, asset.AssignNumber("VEH", 2025, 1))
	assert.Equal(t, "VEH-2025-0001", asset.AssetNumber)

	assert.Error(t, asset.AssignNumber("VEH", 2025, 2))
}

func TestNewDepreciationRecord(t *testing.T) {
	category := testCategory(t)
	asset := testAsset(t, category)
	in := asset.DepreciationInput(category)

	entryID := uuid.New()
	record, err := NewDepreciationRecord(asset, in, 2025, 2, dec("150.00"), &entryID)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, record.AssetID)
	assert.Equal(t, 2025, record.PeriodYear)
	assert.Equal(t, 2, record.PeriodMonth)
	assert.Equal(t, 5, record.LifeSnapshot)

	_, err = NewDepreciationRecord(asset, in, 2025, 13, dec("150.00"), nil)
	assert.Error(t, err)

	_, err = NewDepreciationRecord(asset, in, 2025, 2, decimal.Zero, nil)
	assert.Error(t, err)
}
