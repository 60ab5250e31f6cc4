package leases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
)

// Repository handles lease persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lease *models.Lease) error
	Update(ctx context.Context, lease *models.Lease) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.Lease, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a lease repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

func (r *repository) Update(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&lease).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lease, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.Lease, error) {
	query := r.db.WithContext(ctx).Where("property_id = ?", propertyID)
	if activeOnly {
		query = query.Where("active")
	}
	var out []models.Lease
	if err := query.Order("start_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
