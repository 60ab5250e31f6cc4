package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Property is a managed rental property. Plain property CRUD lives outside the
// settlement engine; the model exists as the owning side of fee definitions,
// meters and payments.
type Property struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string         `gorm:"column:name;not null"`
	Line1      string         `gorm:"column:line1;not null"`
	City       string         `gorm:"column:city;not null"`
	Region     string         `gorm:"column:region"`
	PostalCode string         `gorm:"column:postal_code"`
	Country    string         `gorm:"column:country;not null;default:'PL'"`
	Amenities  pq.StringArray `gorm:"column:amenities;type:text[];default:ARRAY[]::text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
