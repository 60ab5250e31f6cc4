package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func paidSettlement(year, month int, components dbtypes.ComponentList) models.MonthlySettlement {
	return models.MonthlySettlement{
		ID:          uuid.New(),
		Year:        year,
		Month:       month,
		Components:  components,
		TotalAmount: sumActive(components),
		Status:      enums.SettlementStatusPaid,
	}
}

func sumActive(components dbtypes.ComponentList) decimal.Decimal {
	total := decimal.Zero
	for _, c := range components {
		if c.IsActive() {
			total = total.Add(c.Amount)
		}
	}
	return total
}

func TestAggregateRealizedRevenueOnly(t *testing.T) {
	meterID := uuid.New()
	paid := paidSettlement(2025, 3, dbtypes.ComponentList{
		{Name: "Rent", Kind: enums.ComponentKindRent, Status: enums.ComponentStatusActive, Amount: dec("800")},
		{
			Name:   "Electricity",
			Kind:   enums.ComponentKindMeter,
			Status: enums.ComponentStatusActive,
			Amount: dec("200"),
			Meter:  &dbtypes.MeterSnapshot{MeterID: meterID},
		},
	})
	unpaid := models.MonthlySettlement{
		Year:        2025,
		Month:       4,
		TotalAmount: dec("500"),
		Status:      enums.SettlementStatusUnpaid,
	}

	summary := Aggregate([]models.MonthlySettlement{paid, unpaid})

	if !summary.TotalRevenue.Equal(dec("1000")) {
		t.Fatalf("total revenue = %s, want 1000", summary.TotalRevenue)
	}
	if !summary.UnpaidRevenue.Equal(dec("500")) {
		t.Fatalf("unpaid revenue = %s, want 500", summary.UnpaidRevenue)
	}
	if !summary.Breakdown.Rent.Equal(dec("800")) {
		t.Fatalf("rent bucket = %s, want 800", summary.Breakdown.Rent)
	}
	electricity, ok := summary.Breakdown.Meters[meterID]
	if !ok {
		t.Fatal("expected electricity meter total")
	}
	if electricity.Name != "Electricity" || !electricity.Amount.Equal(dec("200")) {
		t.Fatalf("meter total = %+v", electricity)
	}
}

func TestAggregateKeysMetersByID(t *testing.T) {
	kitchen := uuid.New()
	basement := uuid.New()
	// Two distinct meters sharing a display name stay separate.
	settlement := paidSettlement(2025, 5, dbtypes.ComponentList{
		{Name: "Water", Kind: enums.ComponentKindMeter, Status: enums.ComponentStatusActive,
			Amount: dec("30"), Meter: &dbtypes.MeterSnapshot{MeterID: kitchen}},
		{Name: "Water", Kind: enums.ComponentKindMeter, Status: enums.ComponentStatusActive,
			Amount: dec("45"), Meter: &dbtypes.MeterSnapshot{MeterID: basement}},
	})

	summary := Aggregate([]models.MonthlySettlement{settlement})
	if len(summary.Breakdown.Meters) != 2 {
		t.Fatalf("meters = %d, want 2", len(summary.Breakdown.Meters))
	}
	if !summary.Breakdown.Meters[kitchen].Amount.Equal(dec("30")) {
		t.Fatalf("kitchen = %s", summary.Breakdown.Meters[kitchen].Amount)
	}
	if !summary.Breakdown.Meters[basement].Amount.Equal(dec("45")) {
		t.Fatalf("basement = %s", summary.Breakdown.Meters[basement].Amount)
	}
}

func TestAggregateSkipsInactiveComponents(t *testing.T) {
	settlement := paidSettlement(2025, 6, dbtypes.ComponentList{
		{Name: "Rent", Kind: enums.ComponentKindRent, Status: enums.ComponentStatusActive, Amount: dec("700")},
		{Name: "Waived fee", Kind: enums.ComponentKindOther, Status: enums.ComponentStatusInactive, Amount: dec("90")},
	})

	summary := Aggregate([]models.MonthlySettlement{settlement})
	if !summary.Breakdown.Other.IsZero() {
		t.Fatalf("other bucket = %s, inactive components must not count", summary.Breakdown.Other)
	}
}

func TestAggregateChartAndMonthlySeries(t *testing.T) {
	paid := paidSettlement(2025, 1, dbtypes.ComponentList{
		{Name: "Rent", Kind: enums.ComponentKindRent, Status: enums.ComponentStatusActive, Amount: dec("600")},
	})
	issued := models.MonthlySettlement{
		Year:        2025,
		Month:       2,
		TotalAmount: dec("600"),
		Status:      enums.SettlementStatusIssued,
	}

	summary := Aggregate([]models.MonthlySettlement{paid, issued})

	// Chart carries paid settlements only, no gap filling.
	if len(summary.Chart) != 1 {
		t.Fatalf("chart = %d points, want 1", len(summary.Chart))
	}
	if summary.Chart[0].Period != "2025-01" {
		t.Fatalf("period label = %s", summary.Chart[0].Period)
	}

	// Monthly carries every settlement with its status.
	if len(summary.Monthly) != 2 {
		t.Fatalf("monthly = %d points, want 2", len(summary.Monthly))
	}
	if summary.Monthly[1].Status != "issued" {
		t.Fatalf("status = %s", summary.Monthly[1].Status)
	}
}

func TestAggregateEmptyRange(t *testing.T) {
	summary := Aggregate(nil)
	if !summary.TotalRevenue.IsZero() || !summary.UnpaidRevenue.IsZero() {
		t.Fatal("empty range must total zero")
	}
	if summary.Chart == nil || summary.Monthly == nil {
		t.Fatal("series must be empty, not nil")
	}
}
