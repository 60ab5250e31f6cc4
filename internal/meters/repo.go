package meters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
)

// Repository handles meter definition persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, meter *models.MeterDefinition) error
	Update(ctx context.Context, meter *models.MeterDefinition) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MeterDefinition, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.MeterDefinition, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a meter repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, meter *models.MeterDefinition) error {
	return r.db.WithContext(ctx).Create(meter).Error
}

func (r *repository) Update(ctx context.Context, meter *models.MeterDefinition) error {
	return r.db.WithContext(ctx).Save(meter).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MeterDefinition, error) {
	var meter models.MeterDefinition
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&meter).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &meter, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.MeterDefinition, error) {
	var out []models.MeterDefinition
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("name ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
