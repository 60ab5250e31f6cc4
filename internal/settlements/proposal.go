package settlements

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/internal/meters"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// ProposeComponents builds the default component set for a lease's billing
// period: the lease rent, one line per fee definition due in the month, and one
// line per property meter priced from its snapshot. Readings maps a meter to
// the cumulative value being billed; meters without an entry snapshot at their
// stored reading, yielding zero consumption.
func ProposeComponents(
	lease models.Lease,
	feeDefs []models.FeeDefinition,
	meterDefs []models.MeterDefinition,
	readings map[uuid.UUID]decimal.Decimal,
	year, month int,
) dbtypes.ComponentList {
	components := dbtypes.ComponentList{
		{
			Name:   "Rent",
			Kind:   enums.ComponentKindRent,
			Status: enums.ComponentStatusActive,
			Amount: lease.RentAmount.Round(2),
		},
	}

	for _, def := range feeDefs {
		if !def.Active || !fees.IsDueInMonth(def, year, month) {
			continue
		}
		components = append(components, dbtypes.SettlementComponent{
			Name:        def.Name,
			Kind:        enums.ComponentKindOther,
			Status:      enums.ComponentStatusActive,
			Amount:      def.Amount.Round(2),
			Description: def.Description,
		})
	}

	for _, meter := range meterDefs {
		current := meter.CurrentReading
		if reading, ok := readings[meter.ID]; ok {
			current = reading
		}
		snapshot := meters.BuildSnapshot(meter, current)
		components = append(components, dbtypes.SettlementComponent{
			Name:   meter.Name,
			Kind:   enums.ComponentKindMeter,
			Status: enums.ComponentStatusActive,
			Amount: snapshot.Consumption.Mul(snapshot.UnitPrice).Round(2),
			Meter:  &snapshot,
		})
	}

	return components
}
