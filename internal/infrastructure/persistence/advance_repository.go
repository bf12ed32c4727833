package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// outstandingStatuses are the advance statuses that still count against
// an employee's available commission balance
var outstandingStatuses = []payroll.AdvanceStatus{
	payroll.AdvanceStatusApproved,
	payroll.AdvanceStatusPaid,
}

// GormAdvanceRepository implements AdvanceRepository using GORM
type GormAdvanceRepository struct {
	db *gorm.DB
}

// NewGormAdvanceRepository creates a new GormAdvanceRepository
func NewGormAdvanceRepository(db *gorm.DB) *GormAdvanceRepository {
	return &GormAdvanceRepository{db: db}
}

// FindByID finds an advance by its ID
func (r *GormAdvanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Advance, error) {
	var model models.AdvanceModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployee finds all advances of one employee, newest first
func (r *GormAdvanceRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Advance, error) {
	var advanceModels []models.AdvanceModel
	if err := dbFromContext(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("advance_date DESC").
		Find(&advanceModels).Error; err != nil {
		return nil, err
	}
	advances := make([]payroll.Advance, len(advanceModels))
	for i, model := range advanceModels {
		advances[i] = *model.ToDomain()
	}
	return advances, nil
}

// FindOutstandingByEmployee finds the employee's advances that still
// reduce the available balance (approved or paid, not yet recovered)
func (r *GormAdvanceRepository) FindOutstandingByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Advance, error) {
	var advanceModels []models.AdvanceModel
	if err := dbFromContext(ctx, r.db).
		Where("employee_id = ? AND status IN ?", employeeID, outstandingStatuses).
		Order("advance_date ASC").
		Find(&advanceModels).Error; err != nil {
		return nil, err
	}
	advances := make([]payroll.Advance, len(advanceModels))
	for i, model := range advanceModels {
		advances[i] = *model.ToDomain()
	}
	return advances, nil
}

// ExistsForDay reports whether the employee already requested an
// advance on the given calendar day
func (r *GormAdvanceRepository) ExistsForDay(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	if err := dbFromContext(ctx, r.db).Model(&models.AdvanceModel{}).
		Where("employee_id = ? AND advance_date >= ? AND advance_date < ?", employeeID, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds advances with filtering and pagination
func (r *GormAdvanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.Advance, error) {
	var advanceModels []models.AdvanceModel
	query := dbFromContext(ctx, r.db).Model(&models.AdvanceModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&advanceModels).Error; err != nil {
		return nil, err
	}
	advances := make([]payroll.Advance, len(advanceModels))
	for i, model := range advanceModels {
		advances[i] = *model.ToDomain()
	}
	return advances, nil
}

// Count counts advances matching the filter
func (r *GormAdvanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.AdvanceModel{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an advance
func (r *GormAdvanceRepository) Save(ctx context.Context, advance *payroll.Advance) error {
	model := models.AdvanceModelFromDomain(advance)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}

// Delete removes an advance
func (r *GormAdvanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.AdvanceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search, sorting, and pagination to the query
func (r *GormAdvanceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	sortField := ValidateSortField(filter.OrderBy, AdvanceSortFields, "advance_date")
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

// applySearch applies the field filters without pagination
func (r *GormAdvanceRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if employeeID, ok := filter.Filters["employee_id"]; ok {
		query = query.Where("employee_id = ?", employeeID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}
