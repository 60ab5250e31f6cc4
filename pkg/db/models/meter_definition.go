package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MeterDefinition describes a utility meter attached to a property.
// CurrentReading is the latest known cumulative value. Reading history is not
// kept here; each settlement snapshots previous and current readings into its
// own meter component.
type MeterDefinition struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID     uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	SerialNumber   string          `gorm:"column:serial_number;not null"`
	Provider       string          `gorm:"column:provider"`
	CurrentReading decimal.Decimal `gorm:"column:current_reading;type:numeric(14,3);not null"`
	Unit           string          `gorm:"column:unit;not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
