package fees

import (
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// The every-N-months cadence counts whole months elapsed since a fixed epoch,
// January 2024. The anchor is shared by every definition, not configurable
// per fee.
const (
	epochYear  = 2024
	epochMonth = 1
)

// IsDueInMonth reports whether the fee definition applies to the given
// calendar month. Pure and side-effect free; invalid frequency parameters are
// a data-entry error caught at save time, so evaluation fails closed here.
func IsDueInMonth(def models.FeeDefinition, year, month int) bool {
	if month < 1 || month > 12 {
		return false
	}

	switch def.FrequencyKind {
	case enums.FrequencyKindMonthly:
		return true
	case enums.FrequencyKindEveryNMonths:
		if def.FrequencyParameter == nil {
			return false
		}
		n := *def.FrequencyParameter
		if n < 1 || n > 12 {
			return false
		}
		elapsed := (year-epochYear)*12 + (month - epochMonth)
		return elapsed%n == 0
	case enums.FrequencyKindBiannual:
		return month == 1 || month == 7
	case enums.FrequencyKindAnnual:
		return month == 1
	case enums.FrequencyKindSpecificMonth:
		return def.FrequencyParameter != nil && month == *def.FrequencyParameter
	case enums.FrequencyKindNone:
		return false
	}
	// Unknown kinds never bill.
	return false
}
