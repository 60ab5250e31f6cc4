package fees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
)

// Repository handles fee definition persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, def *models.FeeDefinition) error
	Update(ctx context.Context, def *models.FeeDefinition) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FeeDefinition, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.FeeDefinition, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a fee definition repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, def *models.FeeDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *repository) Update(ctx context.Context, def *models.FeeDefinition) error {
	return r.db.WithContext(ctx).Save(def).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FeeDefinition, error) {
	var def models.FeeDefinition
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&def).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.FeeDefinition, error) {
	query := r.db.WithContext(ctx).Where("property_id = ?", propertyID)
	if activeOnly {
		query = query.Where("active")
	}
	var defs []models.FeeDefinition
	if err := query.Order("name ASC, created_at ASC").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}
