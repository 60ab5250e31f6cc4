package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// Payment is one entry in a property's payment ledger. A payment satisfies a
// month's recurring charge only when its status is completed and its payment
// date falls inside that calendar month.
type Payment struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID      uuid.UUID           `gorm:"column:property_id;type:uuid;not null;index"`
	FeeDefinitionID *uuid.UUID          `gorm:"column:fee_definition_id;type:uuid;index"`
	Amount          decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentDate     time.Time           `gorm:"column:payment_date;not null"`
	DueDate         time.Time           `gorm:"column:due_date;not null"`
	Method          enums.PaymentMethod `gorm:"column:method;type:payment_method;not null;default:'bank_transfer'"`
	Status          enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	Notes           string              `gorm:"column:notes"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
