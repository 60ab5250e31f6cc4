package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/rentledger/rentledger-backend/api/responses"
	"github.com/rentledger/rentledger-backend/api/validators"
	"github.com/rentledger/rentledger-backend/internal/payments"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
	"github.com/rentledger/rentledger-backend/pkg/pagination"
)

type requiredPaymentView struct {
	FeeDefinition *models.FeeDefinition `json:"fee_definition"`
	Due           bool                  `json:"due"`
	AlreadyPaid   bool                  `json:"already_paid"`
	Outstanding   bool                  `json:"outstanding"`
}

// RequiredPayments reports which of a property's fees are due and unpaid for
// the requested month.
func RequiredPayments(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year, month, err := periodQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolved, err := svc.RequiredPayments(r.Context(), propertyID, year, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]requiredPaymentView, 0, len(resolved))
		for i := range resolved {
			views = append(views, requiredPaymentView{
				FeeDefinition: &resolved[i].FeeDefinition,
				Due:           resolved[i].Due,
				AlreadyPaid:   resolved[i].AlreadyPaid,
				Outstanding:   resolved[i].Outstanding(),
			})
		}
		responses.WriteSuccess(w, views)
	}
}

type generateResultView struct {
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Failures []string `json:"failures,omitempty"`
}

// RequiredPaymentsGenerate creates pending payments for every outstanding fee
// of the month. Creation is best-effort; partial success returns 207.
func RequiredPaymentsGenerate(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year, month, err := periodQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GenerateOutstanding(r.Context(), propertyID, year, month, time.Now().UTC())
		view := generateResultView{Created: result.Created, Skipped: result.Skipped}
		for _, failure := range multierr.Errors(result.Failures) {
			view.Failures = append(view.Failures, failure.Error())
		}

		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodePartialBatch {
				responses.WriteSuccessStatus(w, http.StatusMultiStatus, view)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

type paymentCreateRequest struct {
	FeeDefinitionID *uuid.UUID      `json:"fee_definition_id,omitempty"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate     time.Time       `json:"payment_date" validate:"required"`
	DueDate         time.Time       `json:"due_date"`
	Method          string          `json:"method" validate:"required"`
	Status          string          `json:"status" validate:"required"`
	Notes           string          `json:"notes,omitempty"`
}

// PaymentCreate records a single ledger entry against a property.
func PaymentCreate(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}
		status, err := enums.ParsePaymentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		payment := &models.Payment{
			PropertyID:      propertyID,
			FeeDefinitionID: payload.FeeDefinitionID,
			Amount:          payload.Amount,
			PaymentDate:     payload.PaymentDate,
			DueDate:         payload.DueDate,
			Method:          method,
			Status:          status,
			Notes:           payload.Notes,
		}
		if err := svc.RecordPayment(r.Context(), payment); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

type paymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentUpdateStatus moves a ledger entry to a new status, e.g. pending to
// completed once a transfer clears.
func PaymentUpdateStatus(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := pathUUID(r, "paymentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePaymentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		payment, err := svc.UpdateStatus(r.Context(), paymentID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

type ledgerPageView struct {
	Payments   []models.Payment `json:"payments"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// PaymentList returns one cursor page of a property's ledger, newest first.
func PaymentList(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListLedger(r.Context(), propertyID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledgerPageView{
			Payments:   page.Payments,
			NextCursor: page.NextCursor,
		})
	}
}

func periodQuery(r *http.Request) (int, int, error) {
	year, err := validators.ParseQueryInt(r, "year", time.Now().UTC().Year(), 2000, 2200)
	if err != nil {
		return 0, 0, err
	}
	month, err := validators.ParseQueryInt(r, "month", int(time.Now().UTC().Month()), 1, 12)
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
