package settlements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
)

// Repository handles monthly settlement persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, settlement *models.MonthlySettlement) error
	Update(ctx context.Context, settlement *models.MonthlySettlement) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MonthlySettlement, error)
	FindByLeasePeriod(ctx context.Context, leaseID uuid.UUID, year, month int) (*models.MonthlySettlement, error)
	ListByLeaseRange(ctx context.Context, leaseID uuid.UUID, startYear, startMonth, endYear, endMonth int) ([]models.MonthlySettlement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settlement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, settlement *models.MonthlySettlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *repository) Update(ctx context.Context, settlement *models.MonthlySettlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MonthlySettlement, error) {
	var settlement models.MonthlySettlement
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&settlement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *repository) FindByLeasePeriod(ctx context.Context, leaseID uuid.UUID, year, month int) (*models.MonthlySettlement, error) {
	var settlement models.MonthlySettlement
	if err := r.db.WithContext(ctx).
		Where("lease_id = ? AND year = ? AND month = ?", leaseID, year, month).
		First(&settlement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *repository) ListByLeaseRange(ctx context.Context, leaseID uuid.UUID, startYear, startMonth, endYear, endMonth int) ([]models.MonthlySettlement, error) {
	// Month-granularity range compare on the (year, month) pair.
	var out []models.MonthlySettlement
	if err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Where("(year * 12 + month) >= ?", startYear*12+startMonth).
		Where("(year * 12 + month) <= ?", endYear*12+endMonth).
		Order("year ASC, month ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MonthlySettlement{}).Error
}
