package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/api/responses"
	"github.com/rentledger/rentledger-backend/api/validators"
	"github.com/rentledger/rentledger-backend/internal/leases"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/logger"
)

type leaseCreateRequest struct {
	TenantName string          `json:"tenant_name" validate:"required,min=1"`
	StartDate  time.Time       `json:"start_date" validate:"required"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	RentAmount decimal.Decimal `json:"rent_amount" validate:"required"`
}

type leaseEndRequest struct {
	EndDate time.Time `json:"end_date" validate:"required"`
}

// LeaseCreate opens a lease on a property.
func LeaseCreate(svc *leases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload leaseCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lease := &models.Lease{
			PropertyID: propertyID,
			TenantName: validators.SanitizeString(payload.TenantName, 255),
			StartDate:  payload.StartDate,
			EndDate:    payload.EndDate,
			RentAmount: payload.RentAmount,
		}
		if err := svc.CreateLease(r.Context(), lease); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lease)
	}
}

// LeaseList returns a property's leases. Pass active=true to filter out
// ended leases.
func LeaseList(svc *leases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		activeOnly := r.URL.Query().Get("active") == "true"

		out, err := svc.ListLeases(r.Context(), propertyID, activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// LeaseEnd closes a lease on the given date.
func LeaseEnd(svc *leases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leaseID, err := pathUUID(r, "leaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload leaseEndRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lease, err := svc.EndLease(r.Context(), leaseID, payload.EndDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lease)
	}
}
