package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCommissionRepository implements CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Commission, error) {
	var model models.CommissionModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds all commissions for the given IDs
func (r *GormCommissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]payroll.Commission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var commissionModels []models.CommissionModel
	if err := dbFromContext(ctx, r.db).
		Where("id IN ?", ids).
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]payroll.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}

// FindByEmployee finds all commissions of one employee, newest first
func (r *GormCommissionRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Commission, error) {
	var commissionModels []models.CommissionModel
	if err := dbFromContext(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]payroll.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}

// FindByEmployeeAndStatuses finds an employee's commissions in any of
// the given statuses
func (r *GormCommissionRepository) FindByEmployeeAndStatuses(ctx context.Context, employeeID uuid.UUID, statuses []payroll.CommissionStatus) ([]payroll.Commission, error) {
	var commissionModels []models.CommissionModel
	if err := dbFromContext(ctx, r.db).
		Where("employee_id = ? AND status IN ?", employeeID, statuses).
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]payroll.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}

// FindAll finds commissions with filtering and pagination
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.Commission, error) {
	var commissionModels []models.CommissionModel
	query := dbFromContext(ctx, r.db).Model(&models.CommissionModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]payroll.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}

// Count counts commissions matching the filter
func (r *GormCommissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.CommissionModel{})
	query = r.applySearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a commission
func (r *GormCommissionRepository) Save(ctx context.Context, commission *payroll.Commission) error {
	model := models.CommissionModelFromDomain(commission)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}

// Delete removes a commission
func (r *GormCommissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.CommissionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search, sorting, and pagination to the query
func (r *GormCommissionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	sortField := ValidateSortField(filter.OrderBy, CommissionSortFields, "created_at")
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
func (r *GormCommissionRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if employeeID, ok := filter.Filters["employee_id"]; ok {
		query = query.Where("employee_id = ?", employeeID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if jobID, ok := filter.Filters["job_id"]; ok {
		query = query.Where("job_id = ?", jobID)
	}
	return query
}

// GormCommissionRateRepository implements CommissionRateRepository using GORM
type GormCommissionRateRepository struct {
	db *gorm.DB
}

// NewGormCommissionRateRepository creates a new GormCommissionRateRepository
func NewGormCommissionRateRepository(db *gorm.DB) *GormCommissionRateRepository {
	return &GormCommissionRateRepository{db: db}
}

// FindByID finds a commission rate by its ID
func (r *GormCommissionRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.CommissionRate, error) {
	var model models.CommissionRateModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployee finds all rates configured for an employee, including
// inactive ones; resolution filters on IsActive
func (r *GormCommissionRateRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.CommissionRate, error) {
	var rateModels []models.CommissionRateModel
	if err := dbFromContext(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&rateModels).Error; err != nil {
		return nil, err
	}
	rates := make([]payroll.CommissionRate, len(rateModels))
	for i, model := range rateModels {
		rates[i] = *model.ToDomain()
	}
	return rates, nil
}

// Save creates or updates a commission rate
func (r *GormCommissionRateRepository) Save(ctx context.Context, rate *payroll.CommissionRate) error {
	model := models.CommissionRateModelFromDomain(rate)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}
