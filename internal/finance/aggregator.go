package finance

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// MeterTotal is one meter's summed expense across the paid settlements of the
// range. Entries are keyed by meter id; the display name rides along so two
// meters sharing a name never merge.
type MeterTotal struct {
	MeterID uuid.UUID       `json:"meter_id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
}

// ExpenseBreakdown splits paid revenue by component kind.
type ExpenseBreakdown struct {
	Rent   decimal.Decimal          `json:"rent"`
	Other  decimal.Decimal          `json:"other"`
	Meters map[uuid.UUID]MeterTotal `json:"meters"`
}

// ChartPoint is one time-series entry for a paid settlement.
type ChartPoint struct {
	Period string          `json:"period"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

// Summary is the aggregated financial view of a lease over a month range.
// Revenue figures count paid settlements only; issued and unpaid settlements
// are excluded so the report shows realized income.
type Summary struct {
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	UnpaidRevenue decimal.Decimal  `json:"unpaid_revenue"`
	Breakdown     ExpenseBreakdown `json:"expense_breakdown"`
	Chart         []ChartPoint     `json:"chart"`
	Monthly       []ChartPoint     `json:"monthly"`
}

// Aggregate folds a lease's settlements into a Summary. The caller supplies
// the settlements already filtered to the requested month range.
func Aggregate(settlements []models.MonthlySettlement) Summary {
	summary := Summary{
		TotalRevenue:  decimal.Zero,
		UnpaidRevenue: decimal.Zero,
		Breakdown: ExpenseBreakdown{
			Rent:   decimal.Zero,
			Other:  decimal.Zero,
			Meters: map[uuid.UUID]MeterTotal{},
		},
		Chart:   []ChartPoint{},
		Monthly: []ChartPoint{},
	}

	for _, settlement := range settlements {
		point := ChartPoint{
			Period: periodLabel(settlement.Year, settlement.Month),
			Year:   settlement.Year,
			Month:  settlement.Month,
			Amount: settlement.TotalAmount,
			Status: settlement.Status.String(),
		}
		summary.Monthly = append(summary.Monthly, point)

		switch settlement.Status {
		case enums.SettlementStatusPaid:
			summary.TotalRevenue = summary.TotalRevenue.Add(settlement.TotalAmount)
			summary.Chart = append(summary.Chart, point)
			accumulateBreakdown(&summary.Breakdown, settlement)
		case enums.SettlementStatusUnpaid:
			summary.UnpaidRevenue = summary.UnpaidRevenue.Add(settlement.TotalAmount)
		}
	}

	return summary
}

func accumulateBreakdown(breakdown *ExpenseBreakdown, settlement models.MonthlySettlement) {
	for _, component := range settlement.Components {
		if !component.IsActive() {
			continue
		}
		switch {
		case component.Kind == enums.ComponentKindRent:
			breakdown.Rent = breakdown.Rent.Add(component.Amount)
		case component.Kind.IsMeter() && component.Meter != nil:
			total, ok := breakdown.Meters[component.Meter.MeterID]
			if !ok {
				total = MeterTotal{
					MeterID: component.Meter.MeterID,
					Name:    component.Name,
					Amount:  decimal.Zero,
				}
			}
			total.Amount = total.Amount.Add(component.Amount)
			breakdown.Meters[component.Meter.MeterID] = total
		default:
			breakdown.Other = breakdown.Other.Add(component.Amount)
		}
	}
}

func periodLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
