package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// MonthlySettlement is the billing document finalized for one lease and one
// calendar month. TotalAmount is derived from the active components and is
// never authoritative on its own; it is recomputed inside the same transaction
// as every component write.
type MonthlySettlement struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LeaseID     uuid.UUID              `gorm:"column:lease_id;type:uuid;not null;uniqueIndex:idx_settlements_lease_period"`
	Year        int                    `gorm:"column:year;not null;uniqueIndex:idx_settlements_lease_period"`
	Month       int                    `gorm:"column:month;not null;uniqueIndex:idx_settlements_lease_period"`
	Components  dbtypes.ComponentList  `gorm:"column:components;type:jsonb;not null"`
	TotalAmount decimal.Decimal        `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status      enums.SettlementStatus `gorm:"column:status;type:settlement_status;not null;default:'issued'"`
	IssuedAt    time.Time              `gorm:"column:issued_at;not null"`
	PaidAt      *time.Time             `gorm:"column:paid_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
