package settlements

import (
	"fmt"

	"github.com/shopspring/decimal"

	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
)

// CalculateTotal sums the active components of a settlement. Inactive
// components contribute nothing but stay in the stored list for history.
func CalculateTotal(components dbtypes.ComponentList) decimal.Decimal {
	total := decimal.Zero
	for _, c := range components {
		if c.IsActive() {
			total = total.Add(c.Amount)
		}
	}
	return total.Round(2)
}

// AddComponent appends a validated component to the list.
func AddComponent(components dbtypes.ComponentList, component dbtypes.SettlementComponent) (dbtypes.ComponentList, error) {
	if err := validateComponent(component); err != nil {
		return nil, err
	}
	out := make(dbtypes.ComponentList, 0, len(components)+1)
	out = append(out, components...)
	out = append(out, component)
	return out, nil
}

// UpdateComponent replaces the component at the given position.
func UpdateComponent(components dbtypes.ComponentList, index int, component dbtypes.SettlementComponent) (dbtypes.ComponentList, error) {
	if index < 0 || index >= len(components) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("component index %d out of range", index))
	}
	if err := validateComponent(component); err != nil {
		return nil, err
	}
	out := make(dbtypes.ComponentList, len(components))
	copy(out, components)
	out[index] = component
	return out, nil
}

// RemoveComponent drops the component at the given position. The remaining
// components keep their relative order, so positions stay contiguous.
func RemoveComponent(components dbtypes.ComponentList, index int) (dbtypes.ComponentList, error) {
	if index < 0 || index >= len(components) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("component index %d out of range", index))
	}
	out := make(dbtypes.ComponentList, 0, len(components)-1)
	out = append(out, components[:index]...)
	out = append(out, components[index+1:]...)
	return out, nil
}

func validateComponent(c dbtypes.SettlementComponent) error {
	details := map[string]string{}
	if c.Name == "" {
		details["name"] = "is required"
	}
	if !c.Kind.IsValid() {
		details["kind"] = "is invalid"
	}
	if !c.Status.IsValid() {
		details["status"] = "is invalid"
	}
	if c.Amount.IsNegative() {
		details["amount"] = "must not be negative"
	}

	switch {
	case c.Kind.IsMeter() && c.Meter == nil:
		details["meter"] = "is required for meter components"
	case !c.Kind.IsMeter() && c.Meter != nil:
		details["meter"] = "is only allowed on meter components"
	case c.Meter != nil:
		// Amount must price exactly the snapshotted consumption.
		expected := c.Meter.Consumption.Mul(c.Meter.UnitPrice).Round(2)
		if !c.Amount.Round(2).Equal(expected) {
			details["amount"] = fmt.Sprintf("must equal consumption x unit price (%s)", expected)
		}
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid settlement component").WithDetails(details)
	}
	return nil
}
