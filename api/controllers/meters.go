package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/api/responses"
	"github.com/rentledger/rentledger-backend/api/validators"
	"github.com/rentledger/rentledger-backend/internal/meters"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/logger"
)

type meterCreateRequest struct {
	Name           string          `json:"name" validate:"required,min=1"`
	SerialNumber   string          `json:"serial_number" validate:"required,min=1"`
	Provider       string          `json:"provider,omitempty"`
	Unit           string          `json:"unit" validate:"required,min=1"`
	UnitPrice      decimal.Decimal `json:"unit_price" validate:"required"`
	CurrentReading decimal.Decimal `json:"current_reading"`
}

type meterReadingRequest struct {
	Reading decimal.Decimal `json:"reading" validate:"required"`
}

// MeterCreate attaches a utility meter to a property.
func MeterCreate(svc *meters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload meterCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meter := &models.MeterDefinition{
			PropertyID:     propertyID,
			Name:           validators.SanitizeString(payload.Name, 255),
			SerialNumber:   validators.SanitizeString(payload.SerialNumber, 128),
			Provider:       validators.SanitizeString(payload.Provider, 255),
			Unit:           payload.Unit,
			UnitPrice:      payload.UnitPrice,
			CurrentReading: payload.CurrentReading,
		}
		if err := svc.CreateMeter(r.Context(), meter); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, meter)
	}
}

// MeterUpdate replaces a meter's descriptive fields and pricing. The meter
// must belong to the property in the path.
func MeterUpdate(svc *meters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		meterID, err := pathUUID(r, "meterID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload meterCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meter := &models.MeterDefinition{
			ID:             meterID,
			PropertyID:     propertyID,
			Name:           validators.SanitizeString(payload.Name, 255),
			SerialNumber:   validators.SanitizeString(payload.SerialNumber, 128),
			Provider:       validators.SanitizeString(payload.Provider, 255),
			Unit:           payload.Unit,
			UnitPrice:      payload.UnitPrice,
			CurrentReading: payload.CurrentReading,
		}
		if err := svc.UpdateMeter(r.Context(), meter); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, meter)
	}
}

// MeterList returns a property's meters.
func MeterList(svc *meters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.ListMeters(r.Context(), propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// MeterRollReading advances a meter's cumulative reading.
func MeterRollReading(svc *meters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meterID, err := pathUUID(r, "meterID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload meterReadingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meter, err := svc.RollReading(r.Context(), meterID, payload.Reading)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, meter)
	}
}
