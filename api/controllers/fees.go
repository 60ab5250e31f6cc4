package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/api/responses"
	"github.com/rentledger/rentledger-backend/api/validators"
	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
)

type feeDefinitionRequest struct {
	Name               string          `json:"name" validate:"required,min=1"`
	Description        string          `json:"description,omitempty"`
	Amount             decimal.Decimal `json:"amount" validate:"required"`
	FrequencyKind      string          `json:"frequency_kind" validate:"required"`
	FrequencyParameter *int            `json:"frequency_parameter,omitempty"`
}

func (r feeDefinitionRequest) toModel(propertyID uuid.UUID) (*models.FeeDefinition, error) {
	kind, err := enums.ParseFrequencyKind(r.FrequencyKind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid frequency kind")
	}
	return &models.FeeDefinition{
		PropertyID:         propertyID,
		Name:               validators.SanitizeString(r.Name, 255),
		Description:        validators.SanitizeString(r.Description, 2000),
		Amount:             r.Amount,
		FrequencyKind:      kind,
		FrequencyParameter: r.FrequencyParameter,
		Active:             true,
	}, nil
}

// FeeCreate registers a recurring fee on a property.
func FeeCreate(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := propertyContext(r, logg, propertyID)

		var payload feeDefinitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		def, err := payload.toModel(propertyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.CreateDefinition(ctx, def); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, def)
	}
}

// FeeUpdate edits a fee definition belonging to the property in the path.
func FeeUpdate(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		feeID, err := pathUUID(r, "feeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload feeDefinitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		def, err := payload.toModel(propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		def.ID = feeID
		if err := svc.UpdateDefinition(r.Context(), def); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, def)
	}
}

// FeeDeactivate retires a fee definition without deleting its history.
func FeeDeactivate(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		feeID, err := pathUUID(r, "feeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		def, err := svc.DeactivateDefinition(r.Context(), propertyID, feeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, def)
	}
}

// FeeList returns a property's fee definitions, optionally active-only.
func FeeList(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := pathUUID(r, "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := propertyContext(r, logg, propertyID)
		activeOnly := r.URL.Query().Get("active") == "true"
		defs, err := svc.ListDefinitions(ctx, propertyID, activeOnly)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, defs)
	}
}

func propertyContext(r *http.Request, logg *logger.Logger, id uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithPropertyID(r.Context(), id.String())
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
