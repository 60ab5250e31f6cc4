package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// FeeDefinition is a template for a recurring charge offered on a property.
// FrequencyParameter is meaningful only for the every-N-months and
// specific-month kinds and must sit in [1,12] there; other kinds ignore it.
// Definitions are deactivated rather than deleted so billing history survives.
type FeeDefinition struct {
	ID                 uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID         uuid.UUID           `gorm:"column:property_id;type:uuid;not null;index"`
	Name               string              `gorm:"column:name;not null"`
	Description        string              `gorm:"column:description"`
	Amount             decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	FrequencyKind      enums.FrequencyKind `gorm:"column:frequency_kind;type:frequency_kind;not null"`
	FrequencyParameter *int                `gorm:"column:frequency_parameter"`
	Active             bool                `gorm:"column:active;not null;default:true"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
