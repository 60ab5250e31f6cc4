package meters

import (
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
)

// ComputeConsumption returns the billable volume between two cumulative
// readings. A current reading below the previous one (meter swap, correction)
// yields zero, never a negative volume.
func ComputeConsumption(previous, current decimal.Decimal) decimal.Decimal {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return decimal.Zero
	}
	return delta
}

// ComputeCharge prices the consumption between two readings, rounded to cents.
func ComputeCharge(previous, current, unitPrice decimal.Decimal) decimal.Decimal {
	return ComputeConsumption(previous, current).Mul(unitPrice).Round(2)
}

// BuildSnapshot freezes a meter's billing state for a settlement component.
// The meter's stored reading is the previous value; current is the reading
// being billed against.
func BuildSnapshot(meter models.MeterDefinition, current decimal.Decimal) dbtypes.MeterSnapshot {
	return dbtypes.MeterSnapshot{
		MeterID:         meter.ID,
		Unit:            meter.Unit,
		UnitPrice:       meter.UnitPrice,
		PreviousReading: meter.CurrentReading,
		CurrentReading:  current,
		Consumption:     ComputeConsumption(meter.CurrentReading, current),
	}
}
