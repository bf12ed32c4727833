package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appaccounting "github.com/timax/backend/internal/application/accounting"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/assets"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// JournalPolicy decides what happens when an automatic journal entry
// cannot be posted alongside a primary operation.
type JournalPolicy string

const (
	// PolicyBestEffort logs and swallows the posting failure; the
	// primary operation still succeeds.
	PolicyBestEffort JournalPolicy = "best_effort"
	// PolicyStrict fails the whole operation.
	PolicyStrict JournalPolicy = "strict"
)

// IsValid checks if the policy is a valid JournalPolicy
func (p JournalPolicy) IsValid() bool {
	return p == PolicyBestEffort || p == PolicyStrict
}

// EntryPoster posts idempotent automatic journal entries
type EntryPoster interface {
	PostAutoEntry(ctx context.Context, req appaccounting.AutoEntryRequest) (*accounting.JournalEntry, error)
}

// LedgerAccounts names the accounts that asset operations touch
// beyond the category-linked ones.
type LedgerAccounts struct {
	CashAccountCode     string
	GainLossAccountCode string
}

// LifecycleService orchestrates asset purchase, monthly depreciation
// and disposal, posting a journal entry for each step.
type LifecycleService struct {
	assets     assets.AssetRepository
	categories assets.AssetCategoryRepository
	records    assets.DepreciationRecordRepository
	poster     EntryPoster
	tx         shared.TransactionManager
	clock      shared.Clock
	logger     *zap.Logger

	purchasePolicy JournalPolicy
	ledger         LedgerAccounts
}

// NewLifecycleService creates a new LifecycleService. Purchase entries
// follow purchasePolicy; depreciation and disposal are always strict
// within their own transactions.
func NewLifecycleService(
	assetRepo assets.AssetRepository,
	categories assets.AssetCategoryRepository,
	records assets.DepreciationRecordRepository,
	poster EntryPoster,
	tx shared.TransactionManager,
	clock shared.Clock,
	logger *zap.Logger,
	purchasePolicy JournalPolicy,
	ledger LedgerAccounts,
) *LifecycleService {
	if !purchasePolicy.IsValid() {
		purchasePolicy = PolicyBestEffort
	}
	return &LifecycleService{
		assets:         assetRepo,
		categories:     categories,
		records:        records,
		poster:         poster,
		tx:             tx,
		clock:          clock,
		logger:         logger,
		purchasePolicy: purchasePolicy,
		ledger:         ledger,
	}
}

// RegisterAssetRequest describes a purchased asset
type RegisterAssetRequest struct {
	Name            string
	CategoryID      uuid.UUID
	SerialNumber    string
	PurchaseDate    time.Time
	PurchaseCost    decimal.Decimal
	SalvageValue    decimal.Decimal
	UsefulLifeYears *int
	Method          *assets.DepreciationMethod
}

// RegisterAsset creates the asset, assigns its number and posts the
// PURCHASE entry under the configured policy.
func (s *LifecycleService) RegisterAsset(ctx context.Context, req RegisterAssetRequest) (*assets.Asset, error) {
	category, err := s.loadCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	asset, err := assets.NewAsset(req.Name, category.ID, req.SerialNumber, req.PurchaseDate,
		req.PurchaseCost, req.SalvageValue, req.UsefulLifeYears, req.Method)
	if err != nil {
		return nil, err
	}

	year := req.PurchaseDate.Year()
	err = s.saveNumbered(ctx, asset, category, year)
	if errors.Is(err, shared.ErrAlreadyExists) {
		s.logger.Warn("asset number collision, retrying",
			zap.String("category", category.Code),
			zap.Int("year", year))
		asset.AssetNumber = ""
		err = s.saveNumbered(ctx, asset, category, year)
	}
	if err != nil {
		return nil, err
	}

	if err := s.postPurchaseEntry(ctx, asset, category); err != nil {
		if s.purchasePolicy == PolicyStrict {
			return nil, err
		}
		s.logger.Error("purchase entry failed, asset kept",
			zap.String("asset_number", asset.AssetNumber),
			zap.Error(err))
	}

	return asset, nil
}

func (s *LifecycleService) saveNumbered(ctx context.Context, asset *assets.Asset, category *assets.AssetCategory, year int) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		maxSeq, err := s.assets.MaxSequenceForCategoryYear(txCtx, category.ID, year)
		if err != nil {
			return fmt.Errorf("failed to read asset sequence: %w", err)
		}
		if err := asset.AssignNumber(category.Code, year, maxSeq+1); err != nil {
			return err
		}
		return s.assets.Save(txCtx, asset)
	})
}

func (s *LifecycleService) postPurchaseEntry(ctx context.Context, asset *assets.Asset, category *assets.AssetCategory) error {
	_, err := s.poster.PostAutoEntry(ctx, appaccounting.AutoEntryRequest{
		EntryDate:   asset.PurchaseDate,
		Description: fmt.Sprintf("Purchase of asset %s (%s)", asset.AssetNumber, asset.Name),
		EntryType:   accounting.EntryTypePurchase,
		Lines: []appaccounting.AutoEntryLine{
			{AccountCode: category.AssetAccountCode, Debit: asset.PurchaseCost, Memo: asset.AssetNumber},
			{AccountCode: s.ledger.CashAccountCode, Credit: asset.PurchaseCost, Memo: asset.AssetNumber},
		},
		Source: accounting.EntrySource{SourceType: "asset", SourceID: asset.ID},
	})
	return err
}

// GetAsset loads one asset
func (s *LifecycleService) GetAsset(ctx context.Context, id uuid.UUID) (*assets.Asset, error) {
	asset, err := s.assets.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("ASSET_NOT_FOUND", "Asset not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}
	return asset, nil
}

// ListAssets returns a page of assets
func (s *LifecycleService) ListAssets(ctx context.Context, filter shared.Filter) (*shared.Paginated[assets.Asset], error) {
	items, err := s.assets.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	total, err := s.assets.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetSchedule returns the asset's full amortization schedule
func (s *LifecycleService) GetSchedule(ctx context.Context, assetID uuid.UUID) ([]assets.ScheduleEntry, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	category, err := s.loadCategory(ctx, asset.CategoryID)
	if err != nil {
		return nil, err
	}
	return assets.GenerateSchedule(asset.DepreciationInput(category))
}

// ListDepreciationRecords returns the asset's recorded periods in
// period order
func (s *LifecycleService) ListDepreciationRecords(ctx context.Context, assetID uuid.UUID) ([]assets.DepreciationRecord, error) {
	if _, err := s.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}
	records, err := s.records.FindByAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load depreciation records: %w", err)
	}
	return records, nil
}

// DepreciationBatchResult reports a monthly run
type DepreciationBatchResult struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// RunMonthlyDepreciation applies one period of depreciation to every
// active asset. Each asset runs in its own transaction; one failure
// is recorded and the batch continues.
func (s *LifecycleService) RunMonthlyDepreciation(ctx context.Context, asOf time.Time) (*DepreciationBatchResult, error) {
	if asOf.IsZero() {
		asOf = s.clock.Today()
	}

	active, err := s.assets.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active assets: %w", err)
	}

	result := &DepreciationBatchResult{}
	for i := range active {
		asset := active[i]
		processed, err := s.depreciateOne(ctx, &asset, asOf)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", asset.AssetNumber, err))
			s.logger.Error("depreciation failed for asset",
				zap.String("asset_number", asset.AssetNumber),
				zap.Error(err))
		case processed:
			result.Processed++
		default:
			result.Skipped++
		}
	}

	s.logger.Info("monthly depreciation run finished",
		zap.Time("as_of", asOf),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

// depreciateOne handles one asset for one period. Returns false when
// the period was already recorded or nothing is left to depreciate.
func (s *LifecycleService) depreciateOne(ctx context.Context, asset *assets.Asset, asOf time.Time) (bool, error) {
	done, err := s.records.ExistsForPeriod(ctx, asset.ID, asOf.Year(), int(asOf.Month()))
	if err != nil {
		return false, fmt.Errorf("failed to check depreciation period: %w", err)
	}
	if done {
		return false, nil
	}

	category, err := s.loadCategory(ctx, asset.CategoryID)
	if err != nil {
		return false, err
	}

	input := asset.DepreciationInput(category)
	targetAccumulated, _, err := assets.Compute(input, asOf)
	if err != nil {
		return false, err
	}

	amount := targetAccumulated.Sub(asset.AccumulatedDepreciation)
	if !amount.IsPositive() {
		return false, nil
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := asset.ApplyDepreciation(amount, asOf); err != nil {
			return err
		}
		if err := s.assets.Save(txCtx, asset); err != nil {
			return fmt.Errorf("failed to save asset: %w", err)
		}

		record, err := assets.NewDepreciationRecord(asset, input, asOf.Year(), int(asOf.Month()), amount, nil)
		if err != nil {
			return err
		}

		entry, err := s.poster.PostAutoEntry(txCtx, appaccounting.AutoEntryRequest{
			EntryDate:   asOf,
			Description: fmt.Sprintf("Depreciation of %s for %d-%02d", asset.AssetNumber, asOf.Year(), int(asOf.Month())),
			EntryType:   accounting.EntryTypeDepreciation,
			Lines: []appaccounting.AutoEntryLine{
				{AccountCode: category.ExpenseAccountCode, Debit: amount, Memo: asset.AssetNumber},
				{AccountCode: category.AccumAccountCode, Credit: amount, Memo: asset.AssetNumber},
			},
			Source: accounting.EntrySource{SourceType: "depreciation_record", SourceID: record.ID},
		})
		if err != nil {
			return err
		}

		record.JournalEntryID = &entry.ID
		return s.records.Save(txCtx, record)
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// DisposeAssetRequest describes an asset disposal
type DisposeAssetRequest struct {
	DisposalDate   time.Time
	DisposalAmount decimal.Decimal
	Method         assets.DisposalMethod
}

// DisposeAsset removes the asset from service and posts the DISPOSAL
// entry with its gain or loss. Strict: any posting failure rolls the
// whole disposal back.
func (s *LifecycleService) DisposeAsset(ctx context.Context, assetID uuid.UUID, req DisposeAssetRequest) (*assets.Asset, error) {
	var asset *assets.Asset
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		asset, err = s.GetAsset(txCtx, assetID)
		if err != nil {
			return err
		}
		category, err := s.loadCategory(txCtx, asset.CategoryID)
		if err != nil {
			return err
		}

		if err := asset.Dispose(req.DisposalDate, req.DisposalAmount, req.Method); err != nil {
			return err
		}

		lines := s.disposalLines(asset, category)
		_, err = s.poster.PostAutoEntry(txCtx, appaccounting.AutoEntryRequest{
			EntryDate:   req.DisposalDate,
			Description: fmt.Sprintf("Disposal of asset %s (%s)", asset.AssetNumber, asset.Name),
			EntryType:   accounting.EntryTypeDisposal,
			Lines:       lines,
			Source:      accounting.EntrySource{SourceType: "asset", SourceID: asset.ID},
		})
		if err != nil {
			return err
		}

		return s.assets.Save(txCtx, asset)
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// disposalLines builds the disposal entry: remove the asset at cost,
// remove the contra-asset, recognize proceeds and the gain or loss.
func (s *LifecycleService) disposalLines(asset *assets.Asset, category *assets.AssetCategory) []appaccounting.AutoEntryLine {
	memo := asset.AssetNumber
	lines := make([]appaccounting.AutoEntryLine, 0, 4)

	if asset.DisposalAmount != nil && asset.DisposalAmount.IsPositive() {
		lines = append(lines, appaccounting.AutoEntryLine{
			AccountCode: s.ledger.CashAccountCode, Debit: *asset.DisposalAmount, Memo: memo,
		})
	}
	if asset.AccumulatedDepreciation.IsPositive() {
		lines = append(lines, appaccounting.AutoEntryLine{
			AccountCode: category.AccumAccountCode, Debit: asset.AccumulatedDepreciation, Memo: memo,
		})
	}
	lines = append(lines, appaccounting.AutoEntryLine{
		AccountCode: category.AssetAccountCode, Credit: asset.PurchaseCost, Memo: memo,
	})

	if asset.GainLoss != nil && !asset.GainLoss.IsZero() {
		if asset.GainLoss.IsPositive() {
			lines = append(lines, appaccounting.AutoEntryLine{
				AccountCode: s.ledger.GainLossAccountCode, Credit: *asset.GainLoss, Memo: memo,
			})
		} else {
			lines = append(lines, appaccounting.AutoEntryLine{
				AccountCode: s.ledger.GainLossAccountCode, Debit: asset.GainLoss.Abs(), Memo: memo,
			})
		}
	}

	return lines
}

// CreateCategoryRequest describes a new asset category
type CreateCategoryRequest struct {
	Code               string
	Name               string
	Description        string
	UsefulLifeYears    int
	Method             assets.DepreciationMethod
	AssetAccountCode   string
	AccumAccountCode   string
	ExpenseAccountCode string
}

// CreateCategory adds an asset category
func (s *LifecycleService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*assets.AssetCategory, error) {
	_, err := s.categories.FindByCode(ctx, req.Code)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category code %s is already in use", req.Code))
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category code: %w", err)
	}

	category, err := assets.NewAssetCategory(req.Code, req.Name, req.Description,
		req.UsefulLifeYears, req.Method,
		req.AssetAccountCode, req.AccumAccountCode, req.ExpenseAccountCode)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return category, nil
}

// ListCategories returns every asset category
func (s *LifecycleService) ListCategories(ctx context.Context) ([]assets.AssetCategory, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *LifecycleService) loadCategory(ctx context.Context, id uuid.UUID) (*assets.AssetCategory, error) {
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Asset category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}
