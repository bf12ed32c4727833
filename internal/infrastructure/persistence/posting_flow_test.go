package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountingapp "github.com/timax/backend/internal/application/accounting"
	assetsapp "github.com/timax/backend/internal/application/assets"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// postingFixture wires the real repositories, transaction manager and
// application services against the SQLite schema, so posting flows run
// through the same layers as production.
type postingFixture struct {
	db       *gorm.DB
	accounts *GormAccountRepository
	journal  *accountingapp.JournalService
}

func newPostingFixture(t *testing.T) *postingFixture {
	t.Helper()

	db := setupTestDB(t)
	tx := NewGormTransactionManager(db)
	clock := shared.FixedClock{Time: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}

	accounts := NewGormAccountRepository(db)
	entries := NewGormJournalEntryRepository(db)
	journal := accountingapp.NewJournalService(entries, accounts, tx, clock, zap.NewNop())

	return &postingFixture{db: db, accounts: accounts, journal: journal}
}

func (f *postingFixture) seedAccount(t *testing.T, code, name string, accountType accounting.AccountType) {
	t.Helper()
	account, err := accounting.NewAccount(code, name, accountType, nil, "")
	require.NoError(t, err)
	require.NoError(t, f.accounts.Save(context.Background(), account))
}

func (f *postingFixture) accountByCode(t *testing.T, code string) *accounting.Account {
	t.Helper()
	account, err := f.accounts.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return account
}

func TestPostAutoEntry_AgainstDatabase(t *testing.T) {
	f := newPostingFixture(t)
	ctx := context.Background()

	f.seedAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	f.seedAccount(t, "4000", "Service revenue", accounting.AccountTypeRevenue)

	req := accountingapp.AutoEntryRequest{
		EntryDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Invoice settled in cash",
		EntryType:   accounting.EntryTypeManual,
		Lines: []accountingapp.AutoEntryLine{
			{AccountCode: "1000", Debit: decimal.NewFromInt(250)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(250)},
		},
		Source: accounting.EntrySource{SourceType: "invoice", SourceID: uuid.New()},
	}

	t.Run("first call creates and posts against an empty table", func(t *testing.T) {
		entry, err := f.journal.PostAutoEntry(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, accounting.EntryStatusPosted, entry.Status)
		assert.Equal(t, "2025-000001", entry.EntryNumber)

		cash := f.accountByCode(t, "1000")
		revenue := f.accountByCode(t, "4000")
		assert.True(t, cash.DebitBalance.Equal(decimal.NewFromInt(250)))
		assert.True(t, revenue.CreditBalance.Equal(decimal.NewFromInt(250)))
	})

	t.Run("second call returns the existing entry without re-posting", func(t *testing.T) {
		first, err := f.journal.PostAutoEntry(ctx, req)
		require.NoError(t, err)
		again, err := f.journal.PostAutoEntry(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)

		cash := f.accountByCode(t, "1000")
		assert.True(t, cash.DebitBalance.Equal(decimal.NewFromInt(250)),
			"balance should not move on the repeated call, got %s", cash.DebitBalance)
	})
}

func TestReverseEntry_AgainstDatabase(t *testing.T) {
	f := newPostingFixture(t)
	ctx := context.Background()

	f.seedAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	f.seedAccount(t, "4000", "Service revenue", accounting.AccountTypeRevenue)
	cashID := f.accountByCode(t, "1000").ID
	revenueID := f.accountByCode(t, "4000").ID

	entry, err := f.journal.CreateEntry(ctx, accountingapp.CreateEntryRequest{
		EntryDate:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		EntryType:   accounting.EntryTypeManual,
		Lines: []accountingapp.LineInput{
			{AccountID: cashID, Debit: decimal.NewFromInt(500)},
			{AccountID: revenueID, Credit: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)
	_, err = f.journal.PostEntry(ctx, entry.ID)
	require.NoError(t, err)

	reversal, err := f.journal.ReverseEntry(ctx, entry.ID, "Entered twice")
	require.NoError(t, err)

	original, err := f.journal.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, accounting.EntryStatusReversed, original.Status)
	require.NotNil(t, original.ReversedByID)
	assert.Equal(t, reversal.ID, *original.ReversedByID)

	cash := f.accountByCode(t, "1000")
	revenue := f.accountByCode(t, "4000")
	assert.True(t, cash.DebitBalance.IsZero(),
		"cash debit total should return to zero, got %s", cash.DebitBalance)
	assert.True(t, cash.CreditBalance.IsZero())
	assert.True(t, revenue.DebitBalance.IsZero())
	assert.True(t, revenue.CreditBalance.IsZero())
	assert.True(t, cash.Balance.IsZero())
	assert.True(t, revenue.Balance.IsZero())
}

func TestAssetLifecycle_AgainstDatabase(t *testing.T) {
	f := newPostingFixture(t)
	ctx := context.Background()

	f.seedAccount(t, "1000", "Cash", accounting.AccountTypeAsset)
	f.seedAccount(t, "1500", "Vehicles", accounting.AccountTypeAsset)
	f.seedAccount(t, "1510", "Accumulated depreciation, vehicles", accounting.AccountTypeAsset)
	f.seedAccount(t, "6200", "Depreciation expense", accounting.AccountTypeExpense)
	f.seedAccount(t, "7100", "Gain/loss on disposal", accounting.AccountTypeRevenue)

	clock := shared.FixedClock{Time: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	tx := NewGormTransactionManager(f.db)
	assetRepo := NewGormAssetRepository(f.db)
	categoryRepo := NewGormAssetCategoryRepository(f.db)
	recordRepo := NewGormDepreciationRecordRepository(f.db)

	lifecycle := assetsapp.NewLifecycleService(assetRepo, categoryRepo, recordRepo,
		f.journal, tx, clock, zap.NewNop(), assetsapp.PolicyStrict,
		assetsapp.LedgerAccounts{CashAccountCode: "1000", GainLossAccountCode: "7100"})

	category, err := lifecycle.CreateCategory(ctx, assetsapp.CreateCategoryRequest{
		Code:               "VEH",
		Name:               "Vehicles",
		UsefulLifeYears:    5,
		Method:             assets.MethodStraightLine,
		AssetAccountCode:   "1500",
		AccumAccountCode:   "1510",
		ExpenseAccountCode: "6200",
	})
	require.NoError(t, err)

	asset, err := lifecycle.RegisterAsset(ctx, assetsapp.RegisterAssetRequest{
		Name:         "Tow truck",
		CategoryID:   category.ID,
		PurchaseDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		PurchaseCost: decimal.NewFromInt(12000),
		SalvageValue: decimal.Zero,
	})
	require.NoError(t, err)

	t.Run("purchase posts asset against cash", func(t *testing.T) {
		vehicles := f.accountByCode(t, "1500")
		cash := f.accountByCode(t, "1000")
		assert.True(t, vehicles.DebitBalance.Equal(decimal.NewFromInt(12000)))
		assert.True(t, cash.CreditBalance.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("monthly run depreciates elapsed months once", func(t *testing.T) {
		asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

		result, err := lifecycle.RunMonthlyDepreciation(ctx, asOf)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 0, result.Failed)

		// Two whole months at 200/month on a 12000 asset over 60 months
		expense := f.accountByCode(t, "6200")
		accum := f.accountByCode(t, "1510")
		assert.True(t, expense.DebitBalance.Equal(decimal.NewFromInt(400)),
			"expected 400 of expense, got %s", expense.DebitBalance)
		assert.True(t, accum.CreditBalance.Equal(decimal.NewFromInt(400)))

		again, err := lifecycle.RunMonthlyDepreciation(ctx, asOf)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Processed)
		assert.Equal(t, 1, again.Skipped)

		expense = f.accountByCode(t, "6200")
		assert.True(t, expense.DebitBalance.Equal(decimal.NewFromInt(400)),
			"repeated run must not depreciate the same period twice")
	})

	t.Run("disposal clears the asset and books the loss", func(t *testing.T) {
		disposed, err := lifecycle.DisposeAsset(ctx, asset.ID, assetsapp.DisposeAssetRequest{
			DisposalDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			DisposalAmount: decimal.NewFromInt(8000),
			Method:         assets.DisposalMethodSold,
		})
		require.NoError(t, err)
		assert.Equal(t, assets.AssetStatusSold, disposed.Status)
		require.NotNil(t, disposed.GainLoss)
		assert.True(t, disposed.GainLoss.Equal(decimal.NewFromInt(-3600)),
			"book value 11600 sold for 8000, got gain/loss %s", disposed.GainLoss)

		// Asset and contra accounts net to zero after disposal
		vehicles := f.accountByCode(t, "1500")
		accum := f.accountByCode(t, "1510")
		cash := f.accountByCode(t, "1000")
		gainLoss := f.accountByCode(t, "7100")
		assert.True(t, vehicles.DebitBalance.Equal(vehicles.CreditBalance))
		assert.True(t, accum.DebitBalance.Equal(accum.CreditBalance))
		assert.True(t, cash.DebitBalance.Equal(decimal.NewFromInt(8000)))
		assert.True(t, gainLoss.DebitBalance.Equal(decimal.NewFromInt(3600)))
	})
}
