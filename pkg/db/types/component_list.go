package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// MeterSnapshot freezes the readings a meter component was billed from.
// Consumption is current minus previous, clamped at zero.
type MeterSnapshot struct {
	MeterID         uuid.UUID       `json:"meter_id"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	Consumption     decimal.Decimal `json:"consumption"`
}

// SettlementComponent is one line item of a monthly settlement. Meter is set
// only when Kind is meter; the other variants never carry reading fields.
type SettlementComponent struct {
	Name        string                `json:"name"`
	Kind        enums.ComponentKind   `json:"kind"`
	Status      enums.ComponentStatus `json:"status"`
	Amount      decimal.Decimal       `json:"amount"`
	Description string                `json:"description,omitempty"`
	Meter       *MeterSnapshot        `json:"meter,omitempty"`
}

// IsActive reports whether the component contributes to the settlement total.
func (c SettlementComponent) IsActive() bool {
	return c.Status == enums.ComponentStatusActive
}

// ComponentList stores the ordered component set of a settlement as a single
// JSONB document.
type ComponentList []SettlementComponent

func (l *ComponentList) Scan(src any) error {
	if src == nil {
		*l = ComponentList{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("ComponentList: unsupported Scan type %T", src)
	}

	if len(raw) == 0 {
		*l = ComponentList{}
		return nil
	}

	var out []SettlementComponent
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("ComponentList: decode: %w", err)
	}
	*l = ComponentList(out)
	return nil
}

func (l ComponentList) Value() (driver.Value, error) {
	if l == nil {
		l = ComponentList{}
	}
	raw, err := json.Marshal([]SettlementComponent(l))
	if err != nil {
		return nil, fmt.Errorf("ComponentList: encode: %w", err)
	}
	return string(raw), nil
}
