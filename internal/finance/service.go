package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/rentledger-backend/internal/leases"
	"github.com/rentledger/rentledger-backend/internal/settlements"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
)

// SummarizeInput bounds a summary request. Nil dates fall back to the lease
// term: start defaults to the lease start, end defaults to the lease end or
// Now. Now is the evaluation instant and must be supplied by the caller.
type SummarizeInput struct {
	LeaseID uuid.UUID
	Start   *time.Time
	End     *time.Time
	Now     time.Time
}

// ServiceParams groups dependencies for the finance service.
type ServiceParams struct {
	SettlementRepo settlements.Repository
	LeaseRepo      leases.Repository
	Cache          *SummaryCache
	Logger         *logger.Logger
}

// Service renders financial summaries for leases.
type Service struct {
	settlementRepo settlements.Repository
	leaseRepo      leases.Repository
	cache          *SummaryCache
	logger         *logger.Logger
}

// NewService builds a finance service.
func NewService(params ServiceParams) (*Service, error) {
	if params.SettlementRepo == nil {
		return nil, errors.New("settlement repo is required")
	}
	if params.LeaseRepo == nil {
		return nil, errors.New("lease repo is required")
	}
	return &Service{
		settlementRepo: params.SettlementRepo,
		leaseRepo:      params.LeaseRepo,
		cache:          params.Cache,
		logger:         params.Logger,
	}, nil
}

// Summarize aggregates a lease's settlements over an inclusive month range.
// Results are cached per lease and range until the next settlement mutation.
func (s *Service) Summarize(ctx context.Context, input SummarizeInput) (*Summary, error) {
	lease, err := s.leaseRepo.FindByID(ctx, input.LeaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lease not found")
	}

	start, end := resolveRange(input, lease.StartDate, lease.EndDate)
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	rangeKey := fmt.Sprintf("%04d-%02d:%04d-%02d", start.Year(), start.Month(), end.Year(), end.Month())
	if cached, err := s.cache.Get(ctx, input.LeaseID, rangeKey); err == nil && cached != nil {
		return cached, nil
	} else if err != nil && s.logger != nil {
		s.logger.Warn(ctx, "summary cache read failed")
	}

	rows, err := s.settlementRepo.ListByLeaseRange(ctx, input.LeaseID,
		start.Year(), int(start.Month()), end.Year(), int(end.Month()))
	if err != nil {
		return nil, err
	}

	summary := Aggregate(rows)
	if err := s.cache.Put(ctx, input.LeaseID, rangeKey, summary); err != nil && s.logger != nil {
		s.logger.Warn(ctx, "summary cache write failed")
	}
	return &summary, nil
}

// InvalidateLease exposes cache invalidation to the settlement service.
func (s *Service) InvalidateLease(ctx context.Context, leaseID uuid.UUID) error {
	return s.cache.InvalidateLease(ctx, leaseID)
}

func resolveRange(input SummarizeInput, leaseStart time.Time, leaseEnd *time.Time) (time.Time, time.Time) {
	start := leaseStart
	if input.Start != nil {
		start = *input.Start
	}

	end := input.Now
	if leaseEnd != nil {
		end = *leaseEnd
	}
	if input.End != nil {
		end = *input.End
	}
	return start, end
}
