package assets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appaccounting "github.com/timax/backend/internal/application/accounting"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MockAssetRepository is a mock implementation of AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assets.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]assets.Asset, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]assets.Asset), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, asset *assets.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) FindByNumber(ctx context.Context, assetNumber string) (*assets.Asset, error) {
	args := m.Called(ctx, assetNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assets.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindActive(ctx context.Context) ([]assets.Asset, error) {
	args := m.Called(ctx)
	return args.Get(0).([]assets.Asset), args.Error(1)
}

func (m *MockAssetRepository) MaxSequenceForCategoryYear(ctx context.Context, categoryID uuid.UUID, year int) (int, error) {
	args := m.Called(ctx, categoryID, year)
	return args.Int(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of AssetCategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*assets.AssetCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assets.AssetCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindByCode(ctx context.Context, code string) (*assets.AssetCategory, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assets.AssetCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]assets.AssetCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]assets.AssetCategory), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *assets.AssetCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of DepreciationRecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Save(ctx context.Context, record *assets.DepreciationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByAsset(ctx context.Context, assetID uuid.UUID) ([]assets.DepreciationRecord, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).([]assets.DepreciationRecord), args.Error(1)
}

func (m *MockRecordRepository) ExistsForPeriod(ctx context.Context, assetID uuid.UUID, periodYear, periodMonth int) (bool, error) {
	args := m.Called(ctx, assetID, periodYear, periodMonth)
	return args.Bool(0), args.Error(1)
}

// MockEntryPoster is a mock implementation of EntryPoster
type MockEntryPoster struct {
	mock.Mock
}

func (m *MockEntryPoster) PostAutoEntry(ctx context.Context, req appaccounting.AutoEntryRequest) (*accounting.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.JournalEntry), args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLedger() LedgerAccounts {
	return LedgerAccounts{CashAccountCode: "1000", GainLossAccountCode: "7100"}
}

func testClock() shared.FixedClock {
	return shared.FixedClock{Time: time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)}
}

func newService(assetRepo *MockAssetRepository, categories *MockCategoryRepository, records *MockRecordRepository, poster *MockEntryPoster, policy JournalPolicy) *LifecycleService {
	return NewLifecycleService(assetRepo, categories, records, poster, passthroughTx{},
		testClock(), zap.NewNop(), policy, testLedger())
}

func testCategory(t *testing.T) *assets.AssetCategory {
	t.Helper()
	category, err := assets.NewAssetCategory("VEH", "Vehicles", "", 5,
		assets.MethodStraightLine, "1500", "1510", "6200")
	require.NoError(t, err)
	return category
}

func testEntry(t *testing.T) *accounting.JournalEntry {
	t.Helper()
	debit, err := accounting.NewDebitLine(uuid.New(), decimal.NewFromInt(100), "")
	require.NoError(t, err)
	credit, err := accounting.NewCreditLine(uuid.New(), decimal.NewFromInt(100), "")
	require.NoError(t, err)
	entry, err := accounting.NewJournalEntry(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		"test", accounting.EntryTypePurchase, []accounting.JournalLine{debit, credit}, nil)
	require.NoError(t, err)
	return entry
}

func TestRegisterAsset_AssignsNumberAndPostsPurchase(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyStrict)

	category := testCategory(t)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("MaxSequenceForCategoryYear", mock.Anything, category.ID, 2025).Return(2, nil)
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	var posted appaccounting.AutoEntryRequest
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posted = args.Get(1).(appaccounting.AutoEntryRequest)
	}).Return(testEntry(t), nil)

	asset, err := service.RegisterAsset(context.Background(), RegisterAssetRequest{
		Name:         "Tire changer",
		CategoryID:   category.ID,
		PurchaseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PurchaseCost: decimal.NewFromInt(9000),
		SalvageValue: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	assert.Equal(t, "VEH-2025-0003", asset.AssetNumber)
	assert.Equal(t, accounting.EntryTypePurchase, posted.EntryType)
	assert.Equal(t, "asset", posted.Source.SourceType)
	assert.Equal(t, asset.ID, posted.Source.SourceID)
	require.Len(t, posted.Lines, 2)
	assert.Equal(t, "1500", posted.Lines[0].AccountCode)
	assert.True(t, posted.Lines[0].Debit.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, "1000", posted.Lines[1].AccountCode)
	assert.True(t, posted.Lines[1].Credit.Equal(decimal.NewFromInt(9000)))
}

func TestRegisterAsset_BestEffortKeepsAssetWhenPostingFails(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("MaxSequenceForCategoryYear", mock.Anything, category.ID, 2025).Return(0, nil)
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account with code 1500 not found"))

	asset, err := service.RegisterAsset(context.Background(), RegisterAssetRequest{
		Name:         "Lift",
		CategoryID:   category.ID,
		PurchaseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PurchaseCost: decimal.NewFromInt(5000),
		SalvageValue: decimal.Zero,
	})

	require.NoError(t, err)
	assert.Equal(t, "VEH-2025-0001", asset.AssetNumber)
}

func TestRegisterAsset_StrictFailsWhenPostingFails(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyStrict)

	category := testCategory(t)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("MaxSequenceForCategoryYear", mock.Anything, category.ID, 2025).Return(0, nil)
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account with code 1500 not found"))

	_, err := service.RegisterAsset(context.Background(), RegisterAssetRequest{
		Name:         "Lift",
		CategoryID:   category.ID,
		PurchaseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PurchaseCost: decimal.NewFromInt(5000),
		SalvageValue: decimal.Zero,
	})

	require.Error(t, err)
}

func TestRegisterAsset_RetriesOnNumberCollision(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("MaxSequenceForCategoryYear", mock.Anything, category.ID, 2025).Return(4, nil).Once()
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists).Once()
	assetRepo.On("MaxSequenceForCategoryYear", mock.Anything, category.ID, 2025).Return(5, nil).Once()
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).Return(testEntry(t), nil)

	asset, err := service.RegisterAsset(context.Background(), RegisterAssetRequest{
		Name:         "Compressor",
		CategoryID:   category.ID,
		PurchaseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PurchaseCost: decimal.NewFromInt(1200),
		SalvageValue: decimal.Zero,
	})

	require.NoError(t, err)
	assert.Equal(t, "VEH-2025-0006", asset.AssetNumber)
	assetRepo.AssertExpectations(t)
}

func newActiveAsset(t *testing.T, category *assets.AssetCategory, cost, salvage int64) *assets.Asset {
	t.Helper()
	asset, err := assets.NewAsset("Diagnostic scanner", category.ID, "",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(cost), decimal.NewFromInt(salvage), nil, nil)
	require.NoError(t, err)
	require.NoError(t, asset.AssignNumber(category.Code, 2025, 1))
	return asset
}

func TestRunMonthlyDepreciation_PostsAndRecords(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	asset := newActiveAsset(t, category, 12000, 0)
	asOf := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	assetRepo.On("FindActive", mock.Anything).Return([]assets.Asset{*asset}, nil)
	records.On("ExistsForPeriod", mock.Anything, asset.ID, 2025, 4).Return(false, nil)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	var posted appaccounting.AutoEntryRequest
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posted = args.Get(1).(appaccounting.AutoEntryRequest)
	}).Return(testEntry(t), nil)

	var savedRecord *assets.DepreciationRecord
	records.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedRecord = args.Get(1).(*assets.DepreciationRecord)
	}).Return(nil)

	result, err := service.RunMonthlyDepreciation(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	// 12000 over 5 years is 200 per month, 3 elapsed months as of Apr 1
	require.NotNil(t, savedRecord)
	assert.True(t, savedRecord.Amount.Equal(decimal.NewFromInt(600)),
		"expected 600, got %s", savedRecord.Amount)
	require.NotNil(t, savedRecord.JournalEntryID)
	assert.Equal(t, accounting.EntryTypeDepreciation, posted.EntryType)
	assert.Equal(t, "depreciation_record", posted.Source.SourceType)
	assert.Equal(t, savedRecord.ID, posted.Source.SourceID)
	require.Len(t, posted.Lines, 2)
	assert.Equal(t, "6200", posted.Lines[0].AccountCode)
	assert.Equal(t, "1510", posted.Lines[1].AccountCode)
}

func TestRunMonthlyDepreciation_SkipsRecordedPeriod(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	asset := newActiveAsset(t, category, 12000, 0)
	asOf := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	assetRepo.On("FindActive", mock.Anything).Return([]assets.Asset{*asset}, nil)
	records.On("ExistsForPeriod", mock.Anything, asset.ID, 2025, 4).Return(true, nil)

	result, err := service.RunMonthlyDepreciation(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	poster.AssertNotCalled(t, "PostAutoEntry", mock.Anything, mock.Anything)
}

func TestRunMonthlyDepreciation_ContinuesAfterFailure(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	broken := newActiveAsset(t, category, 12000, 0)
	healthy := newActiveAsset(t, category, 6000, 0)
	asOf := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	assetRepo.On("FindActive", mock.Anything).Return([]assets.Asset{*broken, *healthy}, nil)
	records.On("ExistsForPeriod", mock.Anything, broken.ID, 2025, 4).
		Return(false, assert.AnError).Once()
	records.On("ExistsForPeriod", mock.Anything, healthy.ID, 2025, 4).Return(false, nil)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	records.On("Save", mock.Anything, mock.Anything).Return(nil)
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).Return(testEntry(t), nil)

	result, err := service.RunMonthlyDepreciation(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
}

func TestDisposeAsset_PostsGainEntry(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	asset := newActiveAsset(t, category, 10000, 0)
	require.NoError(t, asset.ApplyDepreciation(decimal.NewFromInt(5000), time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))

	assetRepo.On("FindByID", mock.Anything, asset.ID).Return(asset, nil)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	assetRepo.On("Save", mock.Anything, asset).Return(nil)

	var posted appaccounting.AutoEntryRequest
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posted = args.Get(1).(appaccounting.AutoEntryRequest)
	}).Return(testEntry(t), nil)

	disposed, err := service.DisposeAsset(context.Background(), asset.ID, DisposeAssetRequest{
		DisposalDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		DisposalAmount: decimal.NewFromInt(7000),
		Method:         assets.DisposalMethodSold,
	})

	require.NoError(t, err)
	assert.Equal(t, assets.AssetStatusSold, disposed.Status)
	require.NotNil(t, disposed.GainLoss)
	assert.True(t, disposed.GainLoss.Equal(decimal.NewFromInt(2000)))

	assert.Equal(t, accounting.EntryTypeDisposal, posted.EntryType)
	require.Len(t, posted.Lines, 4)
	// proceeds, accumulated depreciation, asset at cost, gain
	assert.Equal(t, "1000", posted.Lines[0].AccountCode)
	assert.True(t, posted.Lines[0].Debit.Equal(decimal.NewFromInt(7000)))
	assert.Equal(t, "1510", posted.Lines[1].AccountCode)
	assert.True(t, posted.Lines[1].Debit.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "1500", posted.Lines[2].AccountCode)
	assert.True(t, posted.Lines[2].Credit.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "7100", posted.Lines[3].AccountCode)
	assert.True(t, posted.Lines[3].Credit.Equal(decimal.NewFromInt(2000)))
}

func TestDisposeAsset_FailsWhenPostingFails(t *testing.T) {
	assetRepo := new(MockAssetRepository)
	categories := new(MockCategoryRepository)
	records := new(MockRecordRepository)
	poster := new(MockEntryPoster)
	service := newService(assetRepo, categories, records, poster, PolicyBestEffort)

	category := testCategory(t)
	asset := newActiveAsset(t, category, 10000, 0)

	assetRepo.On("FindByID", mock.Anything, asset.ID).Return(asset, nil)
	categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	poster.On("PostAutoEntry", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account with code 7100 not found"))

	_, err := service.DisposeAsset(context.Background(), asset.ID, DisposeAssetRequest{
		DisposalDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		DisposalAmount: decimal.NewFromInt(3000),
		Method:         assets.DisposalMethodScrapped,
	})

	require.Error(t, err)
	assetRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
