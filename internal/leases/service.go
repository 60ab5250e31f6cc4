package leases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
)

// ServiceParams groups dependencies for the lease service.
type ServiceParams struct {
	Repo Repository
}

// Service manages lease records.
type Service struct {
	repo Repository
}

// NewService builds a lease service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// CreateLease validates and persists a new lease.
func (s *Service) CreateLease(ctx context.Context, lease *models.Lease) error {
	if err := validateLease(lease); err != nil {
		return err
	}
	if lease.ID == uuid.Nil {
		lease.ID = uuid.New()
	}
	lease.Active = true
	return s.repo.Create(ctx, lease)
}

// EndLease closes a lease on the given date and deactivates it. Settlements
// already issued against the lease are untouched.
func (s *Service) EndLease(ctx context.Context, id uuid.UUID, endDate time.Time) (*models.Lease, error) {
	lease, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lease not found")
	}
	if endDate.Before(lease.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes lease start")
	}

	ts := endDate.UTC()
	lease.EndDate = &ts
	lease.Active = false
	if err := s.repo.Update(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// ListLeases returns a property's leases, optionally active only.
func (s *Service) ListLeases(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.Lease, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	return s.repo.ListByProperty(ctx, propertyID, activeOnly)
}

func validateLease(lease *models.Lease) error {
	if lease == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "lease is required")
	}

	details := map[string]string{}
	if lease.PropertyID == uuid.Nil {
		details["property_id"] = "is required"
	}
	if lease.TenantName == "" {
		details["tenant_name"] = "is required"
	}
	if lease.StartDate.IsZero() {
		details["start_date"] = "is required"
	}
	if lease.RentAmount.IsNegative() {
		details["rent_amount"] = "must not be negative"
	}
	if lease.EndDate != nil && lease.EndDate.Before(lease.StartDate) {
		details["end_date"] = "precedes start date"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid lease").WithDetails(details)
	}
	return nil
}
