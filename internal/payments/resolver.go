package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
)

// RequiredPayment reports the month-status of one fee definition.
type RequiredPayment struct {
	FeeDefinition models.FeeDefinition
	Due           bool
	AlreadyPaid   bool
}

// Outstanding reports whether the fee is owed with no completed payment yet.
func (r RequiredPayment) Outstanding() bool {
	return r.Due && !r.AlreadyPaid
}

// MonthWindow returns the inclusive instant bounds of a calendar month, using
// the month's actual last day rather than a fixed day count.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Resolve cross-references a property's fee definitions against its payment
// ledger for one month. A completed payment satisfies a fee when it references
// that definition and its payment date falls inside the month window. Pure;
// the caller supplies all inputs, including the period under evaluation.
func Resolve(defs []models.FeeDefinition, ledger []models.Payment, year, month int) []RequiredPayment {
	start, end := MonthWindow(year, month)

	out := make([]RequiredPayment, 0, len(defs))
	for _, def := range defs {
		if !def.Active {
			continue
		}
		entry := RequiredPayment{
			FeeDefinition: def,
			Due:           fees.IsDueInMonth(def, year, month),
		}
		if entry.Due {
			entry.AlreadyPaid = hasCompletedPayment(ledger, def.ID, start, end)
		}
		out = append(out, entry)
	}
	return out
}

func hasCompletedPayment(ledger []models.Payment, feeDefinitionID uuid.UUID, start, end time.Time) bool {
	for _, payment := range ledger {
		if payment.Status != enums.PaymentStatusCompleted {
			continue
		}
		if payment.FeeDefinitionID == nil || *payment.FeeDefinitionID != feeDefinitionID {
			continue
		}
		if payment.PaymentDate.Before(start) || payment.PaymentDate.After(end) {
			continue
		}
		return true
	}
	return false
}
