package fees

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
)

// ServiceParams groups dependencies for the fee service.
type ServiceParams struct {
	Repo Repository
}

// Service manages recurring fee definitions.
type Service struct {
	repo Repository
}

// NewService builds a fee service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// CreateDefinition validates and persists a new fee definition.
func (s *Service) CreateDefinition(ctx context.Context, def *models.FeeDefinition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}
	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	return s.repo.Create(ctx, def)
}

// UpdateDefinition validates and persists changes to an existing definition.
func (s *Service) UpdateDefinition(ctx context.Context, def *models.FeeDefinition) error {
	if def == nil || def.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "fee definition id is required")
	}
	existing, err := s.repo.FindByID(ctx, def.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "fee definition not found")
	}
	if existing.PropertyID != def.PropertyID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "fee definition does not belong to property")
	}
	if err := validateDefinition(def); err != nil {
		return err
	}
	return s.repo.Update(ctx, def)
}

// DeactivateDefinition soft-retires a definition so billing history survives.
func (s *Service) DeactivateDefinition(ctx context.Context, propertyID, id uuid.UUID) (*models.FeeDefinition, error) {
	def, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil || def.PropertyID != propertyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fee definition not found")
	}
	if !def.Active {
		return def, nil
	}
	def.Active = false
	if err := s.repo.Update(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// ListDefinitions returns a property's fee definitions.
func (s *Service) ListDefinitions(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.FeeDefinition, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	return s.repo.ListByProperty(ctx, propertyID, activeOnly)
}

func validateDefinition(def *models.FeeDefinition) error {
	if def == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "fee definition is required")
	}

	details := map[string]string{}
	if def.PropertyID == uuid.Nil {
		details["property_id"] = "is required"
	}
	if def.Name == "" {
		details["name"] = "is required"
	}
	if def.Amount.LessThan(decimal.Zero) {
		details["amount"] = "must not be negative"
	}
	if !def.FrequencyKind.IsValid() {
		details["frequency_kind"] = "is invalid"
	}

	if def.FrequencyKind.RequiresParameter() {
		if def.FrequencyParameter == nil {
			details["frequency_parameter"] = "is required for this frequency kind"
		} else if *def.FrequencyParameter < 1 || *def.FrequencyParameter > 12 {
			details["frequency_parameter"] = "must be between 1 and 12"
		}
	} else if def.FrequencyKind.IsValid() {
		// The parameter carries no meaning for the other kinds.
		def.FrequencyParameter = nil
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid fee definition").WithDetails(details)
	}
	return nil
}
