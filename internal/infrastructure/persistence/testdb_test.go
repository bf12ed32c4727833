package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// The persistence models are driver-portable, so the same models back
// postgres in production and SQLite in tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.AccountCategoryModel{},
		&models.AccountModel{},
		&models.JournalEntryModel{},
		&models.JournalLineModel{},
		&models.AssetCategoryModel{},
		&models.AssetModel{},
		&models.DepreciationRecordModel{},
		&models.CommissionRateModel{},
		&models.CommissionModel{},
		&models.AdvanceModel{},
		&models.TipModel{},
	)
	require.NoError(t, err)

	return db
}
