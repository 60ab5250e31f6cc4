package settlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/internal/leases"
	"github.com/rentledger/rentledger-backend/internal/meters"
	"github.com/rentledger/rentledger-backend/pkg/db"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
	"github.com/rentledger/rentledger-backend/pkg/metrics"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SummaryInvalidator drops cached financial summaries after a settlement
// mutation so dashboards never serve stale totals.
type SummaryInvalidator interface {
	InvalidateLease(ctx context.Context, leaseID uuid.UUID) error
}

// CreateInput describes a settlement creation request. When Components is nil
// the service proposes the default set for the period.
type CreateInput struct {
	LeaseID    uuid.UUID
	Year       int
	Month      int
	Components dbtypes.ComponentList
	Readings   map[uuid.UUID]decimal.Decimal
}

// ServiceParams groups dependencies for the settlement service.
type ServiceParams struct {
	Tx          TxRunner
	Repo        Repository
	LeaseRepo   leases.Repository
	FeeRepo     fees.Repository
	MeterRepo   meters.Repository
	Logger      *logger.Logger
	Metrics     *metrics.EngineMetrics
	Invalidator SummaryInvalidator
}

// Service manages the monthly settlement lifecycle.
type Service struct {
	tx          TxRunner
	repo        Repository
	leaseRepo   leases.Repository
	feeRepo     fees.Repository
	meterRepo   meters.Repository
	logger      *logger.Logger
	metrics     *metrics.EngineMetrics
	invalidator SummaryInvalidator
}

// NewService builds a settlement service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.LeaseRepo == nil {
		return nil, errors.New("lease repo is required")
	}
	if params.FeeRepo == nil {
		return nil, errors.New("fee repo is required")
	}
	if params.MeterRepo == nil {
		return nil, errors.New("meter repo is required")
	}
	return &Service{
		tx:          params.Tx,
		repo:        params.Repo,
		leaseRepo:   params.LeaseRepo,
		feeRepo:     params.FeeRepo,
		meterRepo:   params.MeterRepo,
		logger:      params.Logger,
		metrics:     params.Metrics,
		invalidator: params.Invalidator,
	}, nil
}

// Create finalizes a settlement for a lease and period. At most one settlement
// may exist per (lease, year, month); the check runs before any write and the
// unique index backs it up under races.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.MonthlySettlement, error) {
	defer s.observe("create", time.Now())

	if input.Month < 1 || input.Month > 12 {
		return nil, s.fail("create", pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12"))
	}
	lease, err := s.leaseRepo.FindByID(ctx, input.LeaseID)
	if err != nil {
		return nil, s.fail("create", err)
	}
	if lease == nil {
		return nil, s.fail("create", pkgerrors.New(pkgerrors.CodeNotFound, "lease not found"))
	}

	existing, err := s.repo.FindByLeasePeriod(ctx, input.LeaseID, input.Year, input.Month)
	if err != nil {
		return nil, s.fail("create", err)
	}
	if existing != nil {
		return nil, s.fail("create", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("settlement already exists for %d-%02d", input.Year, input.Month)))
	}

	components := input.Components
	if components == nil {
		feeDefs, err := s.feeRepo.ListByProperty(ctx, lease.PropertyID, true)
		if err != nil {
			return nil, s.fail("create", err)
		}
		meterDefs, err := s.meterRepo.ListByProperty(ctx, lease.PropertyID)
		if err != nil {
			return nil, s.fail("create", err)
		}
		components = ProposeComponents(*lease, feeDefs, meterDefs, input.Readings, input.Year, input.Month)
	}
	for _, c := range components {
		if err := validateComponent(c); err != nil {
			return nil, s.fail("create", err)
		}
	}

	settlement := &models.MonthlySettlement{
		ID:          uuid.New(),
		LeaseID:     input.LeaseID,
		Year:        input.Year,
		Month:       input.Month,
		Components:  components,
		TotalAmount: CalculateTotal(components),
		Status:      enums.SettlementStatusIssued,
		IssuedAt:    time.Now().UTC(),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, settlement)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_settlements_lease_period") {
			return nil, s.fail("create", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("settlement already exists for %d-%02d", input.Year, input.Month)))
		}
		return nil, s.fail("create", err)
	}

	s.succeed(ctx, "create", settlement.LeaseID)
	return settlement, nil
}

// Get returns a settlement by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MonthlySettlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settlement not found")
	}
	return settlement, nil
}

// ListByLease returns a lease's settlements inside an inclusive month range.
func (s *Service) ListByLease(ctx context.Context, leaseID uuid.UUID, startYear, startMonth, endYear, endMonth int) ([]models.MonthlySettlement, error) {
	return s.repo.ListByLeaseRange(ctx, leaseID, startYear, startMonth, endYear, endMonth)
}

// AddComponent appends a component and recomputes the total in the same
// transaction.
func (s *Service) AddComponent(ctx context.Context, id uuid.UUID, component dbtypes.SettlementComponent) (*models.MonthlySettlement, error) {
	defer s.observe("add_component", time.Now())
	return s.mutateComponents(ctx, "add_component", id, func(components dbtypes.ComponentList) (dbtypes.ComponentList, error) {
		return AddComponent(components, component)
	})
}

// UpdateComponent replaces the component at index and recomputes the total in
// the same transaction.
func (s *Service) UpdateComponent(ctx context.Context, id uuid.UUID, index int, component dbtypes.SettlementComponent) (*models.MonthlySettlement, error) {
	defer s.observe("update_component", time.Now())
	return s.mutateComponents(ctx, "update_component", id, func(components dbtypes.ComponentList) (dbtypes.ComponentList, error) {
		return UpdateComponent(components, index, component)
	})
}

// RemoveComponent drops the component at index and recomputes the total in the
// same transaction.
func (s *Service) RemoveComponent(ctx context.Context, id uuid.UUID, index int) (*models.MonthlySettlement, error) {
	defer s.observe("remove_component", time.Now())
	return s.mutateComponents(ctx, "remove_component", id, func(components dbtypes.ComponentList) (dbtypes.ComponentList, error) {
		return RemoveComponent(components, index)
	})
}

// MarkPaid transitions issued -> paid and records the paid timestamp. An
// already-paid settlement is rejected rather than silently restamped.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (*models.MonthlySettlement, error) {
	defer s.observe("mark_paid", time.Now())

	settlement, err := s.Get(ctx, id)
	if err != nil {
		return nil, s.fail("mark_paid", err)
	}
	if settlement.Status == enums.SettlementStatusPaid {
		return nil, s.fail("mark_paid", pkgerrors.New(pkgerrors.CodeStateConflict, "settlement is already paid"))
	}

	ts := paidAt.UTC()
	settlement.Status = enums.SettlementStatusPaid
	settlement.PaidAt = &ts

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, settlement)
	})
	if err != nil {
		return nil, s.fail("mark_paid", err)
	}

	s.succeed(ctx, "mark_paid", settlement.LeaseID)
	return settlement, nil
}

// MarkUnpaid transitions issued -> unpaid. Any other starting state is a
// conflict; the lifecycle never moves backwards.
func (s *Service) MarkUnpaid(ctx context.Context, id uuid.UUID) (*models.MonthlySettlement, error) {
	defer s.observe("mark_unpaid", time.Now())

	settlement, err := s.Get(ctx, id)
	if err != nil {
		return nil, s.fail("mark_unpaid", err)
	}
	if settlement.Status != enums.SettlementStatusIssued {
		return nil, s.fail("mark_unpaid", pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot mark %s settlement unpaid", settlement.Status)))
	}

	settlement.Status = enums.SettlementStatusUnpaid

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, settlement)
	})
	if err != nil {
		return nil, s.fail("mark_unpaid", err)
	}

	s.succeed(ctx, "mark_unpaid", settlement.LeaseID)
	return settlement, nil
}

// Delete removes a settlement permanently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	defer s.observe("delete", time.Now())

	settlement, err := s.Get(ctx, id)
	if err != nil {
		return s.fail("delete", err)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return s.fail("delete", err)
	}

	s.succeed(ctx, "delete", settlement.LeaseID)
	return nil
}

func (s *Service) mutateComponents(ctx context.Context, op string, id uuid.UUID, mutate func(dbtypes.ComponentList) (dbtypes.ComponentList, error)) (*models.MonthlySettlement, error) {
	settlement, err := s.Get(ctx, id)
	if err != nil {
		return nil, s.fail(op, err)
	}

	components, err := mutate(settlement.Components)
	if err != nil {
		return nil, s.fail(op, err)
	}
	settlement.Components = components
	settlement.TotalAmount = CalculateTotal(components)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, settlement)
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.succeed(ctx, op, settlement.LeaseID)
	return settlement, nil
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.ObserveDuration(op, time.Since(start))
}

func (s *Service) fail(op string, err error) error {
	s.metrics.IncFailure(op)
	return err
}

func (s *Service) succeed(ctx context.Context, op string, leaseID uuid.UUID) {
	s.metrics.IncSuccess(op)
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateLease(ctx, leaseID); err != nil && s.logger != nil {
			s.logger.Error(ctx, "invalidating cached summary", err)
		}
	}
}
