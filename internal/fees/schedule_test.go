package fees

import (
	"testing"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

func intPtr(v int) *int { return &v }

func TestIsDueInMonthMonthly(t *testing.T) {
	def := models.FeeDefinition{FrequencyKind: enums.FrequencyKindMonthly}
	for year := 2023; year <= 2026; year++ {
		for month := 1; month <= 12; month++ {
			if !IsDueInMonth(def, year, month) {
				t.Fatalf("monthly fee should be due in %d-%02d", year, month)
			}
		}
	}
}

func TestIsDueInMonthEveryNMonths(t *testing.T) {
	def := models.FeeDefinition{
		FrequencyKind:      enums.FrequencyKindEveryNMonths,
		FrequencyParameter: intPtr(3),
	}

	due := map[int]bool{1: true, 4: true, 7: true, 10: true}
	for month := 1; month <= 12; month++ {
		got := IsDueInMonth(def, 2024, month)
		if got != due[month] {
			t.Fatalf("N=3 epoch Jan 2024: month %d expected due=%v got %v", month, due[month], got)
		}
	}

	// The cadence continues across year boundaries.
	if !IsDueInMonth(def, 2025, 1) {
		t.Fatalf("N=3 should be due in Jan 2025 (12 months after epoch)")
	}
	if IsDueInMonth(def, 2025, 2) {
		t.Fatalf("N=3 should not be due in Feb 2025")
	}
}

func TestIsDueInMonthEveryNMonthsMissingParameterFailsClosed(t *testing.T) {
	def := models.FeeDefinition{FrequencyKind: enums.FrequencyKindEveryNMonths}
	if IsDueInMonth(def, 2024, 1) {
		t.Fatalf("missing parameter should never be due")
	}
	def.FrequencyParameter = intPtr(0)
	if IsDueInMonth(def, 2024, 1) {
		t.Fatalf("out-of-range parameter should never be due")
	}
}

func TestIsDueInMonthBiannual(t *testing.T) {
	def := models.FeeDefinition{FrequencyKind: enums.FrequencyKindBiannual}
	for year := 2023; year <= 2026; year++ {
		for month := 1; month <= 12; month++ {
			want := month == 1 || month == 7
			if got := IsDueInMonth(def, year, month); got != want {
				t.Fatalf("biannual %d-%02d expected %v got %v", year, month, want, got)
			}
		}
	}
}

func TestIsDueInMonthAnnual(t *testing.T) {
	def := models.FeeDefinition{FrequencyKind: enums.FrequencyKindAnnual}
	for month := 1; month <= 12; month++ {
		want := month == 1
		if got := IsDueInMonth(def, 2025, month); got != want {
			t.Fatalf("annual month %d expected %v got %v", month, want, got)
		}
	}
}

func TestIsDueInMonthSpecificMonth(t *testing.T) {
	def := models.FeeDefinition{
		FrequencyKind:      enums.FrequencyKindSpecificMonth,
		FrequencyParameter: intPtr(5),
	}
	for month := 1; month <= 12; month++ {
		want := month == 5
		if got := IsDueInMonth(def, 2025, month); got != want {
			t.Fatalf("specific-month=5 month %d expected %v got %v", month, want, got)
		}
	}
}

func TestIsDueInMonthNoneAndUnknown(t *testing.T) {
	none := models.FeeDefinition{FrequencyKind: enums.FrequencyKindNone}
	unknown := models.FeeDefinition{FrequencyKind: enums.FrequencyKind("quarterly-ish")}
	for month := 1; month <= 12; month++ {
		if IsDueInMonth(none, 2025, month) {
			t.Fatalf("none kind should never be due")
		}
		if IsDueInMonth(unknown, 2025, month) {
			t.Fatalf("unknown kind should fail closed")
		}
	}
}

func TestIsDueInMonthRejectsInvalidMonth(t *testing.T) {
	def := models.FeeDefinition{FrequencyKind: enums.FrequencyKindMonthly}
	if IsDueInMonth(def, 2025, 0) || IsDueInMonth(def, 2025, 13) {
		t.Fatalf("months outside 1..12 should never be due")
	}
}
