package meters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
)

// ServiceParams groups dependencies for the meter service.
type ServiceParams struct {
	Repo Repository
}

// Service manages utility meters and their cumulative readings.
type Service struct {
	repo Repository
}

// NewService builds a meter service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// CreateMeter validates and persists a new meter definition.
func (s *Service) CreateMeter(ctx context.Context, meter *models.MeterDefinition) error {
	if err := validateMeter(meter); err != nil {
		return err
	}
	if meter.ID == uuid.Nil {
		meter.ID = uuid.New()
	}
	return s.repo.Create(ctx, meter)
}

// UpdateMeter validates and persists changes to an existing meter.
func (s *Service) UpdateMeter(ctx context.Context, meter *models.MeterDefinition) error {
	if meter == nil || meter.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "meter id is required")
	}
	existing, err := s.repo.FindByID(ctx, meter.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "meter not found")
	}
	if existing.PropertyID != meter.PropertyID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "meter does not belong to property")
	}
	if err := validateMeter(meter); err != nil {
		return err
	}
	return s.repo.Update(ctx, meter)
}

// RollReading advances a meter's cumulative reading to the given value. The
// previous value stays recoverable only through settlement snapshots, so the
// caller is expected to have billed against it first.
func (s *Service) RollReading(ctx context.Context, meterID uuid.UUID, reading decimal.Decimal) (*models.MeterDefinition, error) {
	if reading.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reading must not be negative")
	}
	meter, err := s.repo.FindByID(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meter not found")
	}
	meter.CurrentReading = reading
	if err := s.repo.Update(ctx, meter); err != nil {
		return nil, err
	}
	return meter, nil
}

// ListMeters returns a property's meters.
func (s *Service) ListMeters(ctx context.Context, propertyID uuid.UUID) ([]models.MeterDefinition, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

func validateMeter(meter *models.MeterDefinition) error {
	if meter == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "meter is required")
	}

	details := map[string]string{}
	if meter.PropertyID == uuid.Nil {
		details["property_id"] = "is required"
	}
	if meter.Name == "" {
		details["name"] = "is required"
	}
	if meter.SerialNumber == "" {
		details["serial_number"] = "is required"
	}
	if meter.Unit == "" {
		details["unit"] = "is required"
	}
	if meter.UnitPrice.IsNegative() {
		details["unit_price"] = "must not be negative"
	}
	if meter.CurrentReading.IsNegative() {
		details["current_reading"] = "must not be negative"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid meter").WithDetails(details)
	}
	return nil
}
