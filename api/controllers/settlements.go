package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/api/responses"
	"github.com/rentledger/rentledger-backend/api/validators"
	"github.com/rentledger/rentledger-backend/internal/settlements"
	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
)

type componentRequest struct {
	Name        string              `json:"name" validate:"required,min=1"`
	Kind        string              `json:"kind" validate:"required"`
	Status      string              `json:"status" validate:"required"`
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description,omitempty"`
	Meter       *meterSnapshotInput `json:"meter,omitempty"`
}

type meterSnapshotInput struct {
	MeterID         uuid.UUID       `json:"meter_id" validate:"required"`
	Unit            string          `json:"unit" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
}

func (c componentRequest) toComponent() (dbtypes.SettlementComponent, error) {
	kind, err := enums.ParseComponentKind(c.Kind)
	if err != nil {
		return dbtypes.SettlementComponent{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component kind")
	}
	status, err := enums.ParseComponentStatus(c.Status)
	if err != nil {
		return dbtypes.SettlementComponent{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component status")
	}

	component := dbtypes.SettlementComponent{
		Name:        c.Name,
		Kind:        kind,
		Status:      status,
		Amount:      c.Amount,
		Description: c.Description,
	}
	if c.Meter != nil {
		consumption := c.Meter.CurrentReading.Sub(c.Meter.PreviousReading)
		if consumption.IsNegative() {
			consumption = decimal.Zero
		}
		component.Meter = &dbtypes.MeterSnapshot{
			MeterID:         c.Meter.MeterID,
			Unit:            c.Meter.Unit,
			UnitPrice:       c.Meter.UnitPrice,
			PreviousReading: c.Meter.PreviousReading,
			CurrentReading:  c.Meter.CurrentReading,
			Consumption:     consumption,
		}
	}
	return component, nil
}

type settlementCreateRequest struct {
	Year       int                        `json:"year" validate:"required,min=2000,max=2200"`
	Month      int                        `json:"month" validate:"required,min=1,max=12"`
	Components []componentRequest         `json:"components,omitempty"`
	Readings   map[string]decimal.Decimal `json:"readings,omitempty"`
}

type markPaidRequest struct {
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// SettlementCreate finalizes a settlement for a lease and period. Without an
// explicit component list the server proposes the default set.
func SettlementCreate(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leaseID, err := pathUUID(r, "leaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := leaseContext(r, logg, leaseID)

		var payload settlementCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := settlements.CreateInput{
			LeaseID: leaseID,
			Year:    payload.Year,
			Month:   payload.Month,
		}
		if payload.Components != nil {
			components := make(dbtypes.ComponentList, 0, len(payload.Components))
			for _, c := range payload.Components {
				component, err := c.toComponent()
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				components = append(components, component)
			}
			input.Components = components
		}
		if len(payload.Readings) > 0 {
			readings := make(map[uuid.UUID]decimal.Decimal, len(payload.Readings))
			for raw, value := range payload.Readings {
				id, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w,
						pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meter id in readings"))
					return
				}
				readings[id] = value
			}
			input.Readings = readings
		}

		settlement, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, settlement)
	}
}

// SettlementGet returns one settlement.
func SettlementGet(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := settlementContext(r, logg, id)
		settlement, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// SettlementList returns a lease's settlements inside an inclusive month
// range, defaulting to the trailing twelve months.
func SettlementList(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leaseID, err := pathUUID(r, "leaseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := leaseContext(r, logg, leaseID)

		now := time.Now().UTC()
		defaultStart := now.AddDate(0, -11, 0)
		startYear, err := validators.ParseQueryInt(r, "start_year", defaultStart.Year(), 2000, 2200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		startMonth, err := validators.ParseQueryInt(r, "start_month", int(defaultStart.Month()), 1, 12)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		endYear, err := validators.ParseQueryInt(r, "end_year", now.Year(), 2000, 2200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		endMonth, err := validators.ParseQueryInt(r, "end_month", int(now.Month()), 1, 12)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListByLease(ctx, leaseID, startYear, startMonth, endYear, endMonth)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SettlementAddComponent appends a line item.
func SettlementAddComponent(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := settlementContext(r, logg, id)

		var payload componentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		component, err := payload.toComponent()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		settlement, err := svc.AddComponent(ctx, id, component)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// SettlementUpdateComponent replaces the line item at the path index.
func SettlementUpdateComponent(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := settlementContext(r, logg, id)
		index, err := pathIndex(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload componentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		component, err := payload.toComponent()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		settlement, err := svc.UpdateComponent(ctx, id, index, component)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// SettlementRemoveComponent drops the line item at the path index.
func SettlementRemoveComponent(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := settlementContext(r, logg, id)
		index, err := pathIndex(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		settlement, err := svc.RemoveComponent(ctx, id, index)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// SettlementMarkPaid moves a settlement to paid, stamping the paid time.
func SettlementMarkPaid(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := settlementContext(r, logg, id)

		paidAt := time.Now().UTC()
		if r.ContentLength > 0 {
			var payload markPaidRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if payload.PaidAt != nil {
				paidAt = *payload.PaidAt
			}
		}

		settlement, err := svc.MarkPaid(ctx, id, paidAt)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// SettlementMarkUnpaid flags non-payment of an issued settlement.
func SettlementMarkUnpaid(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := settlementContext(r, logg, id)
		settlement, err := svc.MarkUnpaid(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// SettlementDelete removes a settlement permanently.
func SettlementDelete(svc *settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "settlementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := settlementContext(r, logg, id)
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func pathIndex(r *http.Request) (int, error) {
	return validators.ParsePathInt(r, "index", 0, 1<<20)
}

func settlementContext(r *http.Request, logg *logger.Logger, id uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithSettlementID(r.Context(), id.String())
}

func leaseContext(r *http.Request, logg *logger.Logger, id uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithLeaseID(r.Context(), id.String())
}
