package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTipRepository implements TipRepository using GORM
type GormTipRepository struct {
	db *gorm.DB
}

// NewGormTipRepository creates a new GormTipRepository
func NewGormTipRepository(db *gorm.DB) *GormTipRepository {
	return &GormTipRepository{db: db}
}

// FindByID finds a tip by its ID
func (r *GormTipRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Tip, error) {
	var model models.TipModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployee finds all tips of one employee, newest first
func (r *GormTipRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]payroll.Tip, error) {
	var tipModels []models.TipModel
	if err := dbFromContext(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&tipModels).Error; err != nil {
		return nil, err
	}
	tips := make([]payroll.Tip, len(tipModels))
	for i, model := range tipModels {
		tips[i] = *model.ToDomain()
	}
	return tips, nil
}

// Save creates or updates a tip
func (r *GormTipRepository) Save(ctx context.Context, tip *payroll.Tip) error {
	model := models.TipModelFromDomain(tip)
	return translateError(dbFromContext(ctx, r.db).Save(model).Error)
}
