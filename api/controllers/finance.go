package controllers

import (
	"net/http"
	"time"

	"github.com/rentledger/rentledger-backend/api/responses"
	"github.com/rentledger/rentledger-backend/internal/finance"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
)

// FinancialSummary aggregates a lease's settlements over an optional date
// range. Dates use YYYY-MM-DD; omitting them falls back to the lease term.
func FinancialSummary(svc *finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leaseID, err := pathUUID(r, "leaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := leaseContext(r, logg, leaseID)

		input := finance.SummarizeInput{
			LeaseID: leaseID,
			Now:     time.Now().UTC(),
		}
		if raw := r.URL.Query().Get("start"); raw != "" {
			start, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start date"))
				return
			}
			input.Start = &start
		}
		if raw := r.URL.Query().Get("end"); raw != "" {
			end, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end date"))
				return
			}
			input.End = &end
		}

		summary, err := svc.Summarize(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
