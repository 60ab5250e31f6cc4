package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lease binds a tenant to a property for a period and carries the monthly rent
// used as the default rent component of a settlement.
type Lease struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index"`
	TenantName string          `gorm:"column:tenant_name;not null"`
	StartDate  time.Time       `gorm:"column:start_date;not null"`
	EndDate    *time.Time      `gorm:"column:end_date"`
	RentAmount decimal.Decimal `gorm:"column:rent_amount;type:numeric(12,2);not null"`
	Active     bool            `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
