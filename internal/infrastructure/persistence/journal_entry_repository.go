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

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID finds a journal entry with its lines by ID
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := dbFromContext(ctx, r.db).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a journal entry by its formatted entry number
func (r *GormJournalEntryRepository) FindByNumber(ctx context.Context, entryNumber string) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := dbFromContext(ctx, r.db).
		Preload("Lines").
		First(&model, "entry_number = ?", entryNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySource finds the automatic entry created for a source record.
// Used by idempotent auto-posting to detect an earlier successful run.
func (r *GormJournalEntryRepository) FindBySource(ctx context.Context, source accounting.EntrySource, entryType accounting.EntryType) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := dbFromContext(ctx, r.db).
		Preload("Lines").
		Where("source_type = ? AND source_id = ? AND entry_type = ?", source.SourceType, source.SourceID, entryType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MaxSequenceForYear returns the highest assigned entry sequence for
// the year, or 0 when the year has no entries yet
func (r *GormJournalEntryRepository) MaxSequenceForYear(ctx context.Context, year int) (int, error) {
	var result struct {
		MaxSequence int
	}
	if err := dbFromContext(ctx, r.db).Model(&models.JournalEntryModel{}).
		Select("COALESCE(MAX(entry_sequence), 0) as max_sequence").
		Where("entry_year = ?", year).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.MaxSequence, nil
}

// FindAll finds journal entries with filtering and pagination
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.JournalEntry, error) {
	var entryModels []models.JournalEntryModel
	query := dbFromContext(ctx, r.db).Model(&models.JournalEntryModel{}).Preload("Lines")
	query = r.applyFilter(query, filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]accounting.JournalEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts journal entries matching the filter
func (r *GormJournalEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.JournalEntryModel{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a journal entry together with its lines
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	err := dbFromContext(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
	return translateError(err)
}

// Delete removes a draft journal entry and its lines
func (r *GormJournalEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&models.JournalLineModel{}, "entry_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.JournalEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search, sorting, and pagination to the query
func (r *GormJournalEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	sortField := ValidateSortField(filter.OrderBy, JournalEntrySortFields, "entry_date")
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
func (r *GormJournalEntryRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(entry_number LIKE ? OR description LIKE ?)", searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if entryType, ok := filter.Filters["entry_type"]; ok {
		query = query.Where("entry_type = ?", entryType)
	}
	if fromDate, ok := filter.Filters["from_date"]; ok {
		query = query.Where("entry_date >= ?", fromDate)
	}
	if toDate, ok := filter.Filters["to_date"]; ok {
		query = query.Where("entry_date <= ?", toDate)
	}
	return query
}
