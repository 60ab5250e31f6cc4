package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/logger"
	"github.com/rentledger/rentledger-backend/pkg/pagination"
)

// GenerateResult reports the outcome of a bulk payment generation. Creation is
// best-effort per item, so Created can be positive while Failures is non-nil.
type GenerateResult struct {
	Created  int
	Skipped  int
	Failures error
}

// LedgerPage is one cursor page of a property's payment ledger.
type LedgerPage struct {
	Payments   []models.Payment
	NextCursor string
}

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	Repo    Repository
	FeeRepo fees.Repository
	Logger  *logger.Logger
}

// Service manages the payment ledger and the required-payments view.
type Service struct {
	repo    Repository
	feeRepo fees.Repository
	logger  *logger.Logger
}

// NewService builds a payment service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.FeeRepo == nil {
		return nil, errors.New("fee repo is required")
	}
	return &Service{
		repo:    params.Repo,
		feeRepo: params.FeeRepo,
		logger:  params.Logger,
	}, nil
}

// RequiredPayments resolves which of a property's fees are due for a month and
// whether a completed payment already covers each of them.
func (s *Service) RequiredPayments(ctx context.Context, propertyID uuid.UUID, year, month int) ([]RequiredPayment, error) {
	if month < 1 || month > 12 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	defs, err := s.feeRepo.ListByProperty(ctx, propertyID, true)
	if err != nil {
		return nil, err
	}
	start, end := MonthWindow(year, month)
	ledger, err := s.repo.ListCompletedInWindow(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}
	return Resolve(defs, ledger, year, month), nil
}

// GenerateOutstanding creates one pending payment per outstanding fee of the
// month. Each record is created independently; a failure on one fee does not
// roll back the others. The due date is the month's real last day and asOf
// stamps the generated records.
func (s *Service) GenerateOutstanding(ctx context.Context, propertyID uuid.UUID, year, month int, asOf time.Time) (GenerateResult, error) {
	resolved, err := s.RequiredPayments(ctx, propertyID, year, month)
	if err != nil {
		return GenerateResult{}, err
	}

	_, end := MonthWindow(year, month)
	result := GenerateResult{}
	for _, entry := range resolved {
		if !entry.Outstanding() {
			result.Skipped++
			continue
		}
		def := entry.FeeDefinition
		feeID := def.ID
		payment := &models.Payment{
			ID:              uuid.New(),
			PropertyID:      propertyID,
			FeeDefinitionID: &feeID,
			Amount:          def.Amount,
			PaymentDate:     asOf.UTC(),
			DueDate:         end.Truncate(24 * time.Hour),
			Method:          enums.PaymentMethodBankTransfer,
			Status:          enums.PaymentStatusPending,
			Notes:           fmt.Sprintf("Generated for %s, %d-%02d", def.Name, year, month),
		}
		if err := s.repo.Create(ctx, payment); err != nil {
			result.Failures = multierr.Append(result.Failures,
				fmt.Errorf("fee %s: %w", def.Name, err))
			if s.logger != nil {
				s.logger.Error(ctx, "creating generated payment", err)
			}
			continue
		}
		result.Created++
	}

	if result.Failures != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodePartialBatch, result.Failures,
			fmt.Sprintf("created %d of %d outstanding payments", result.Created, result.Created+len(multierr.Errors(result.Failures))))
	}
	return result, nil
}

// RecordPayment validates and stores a single ledger entry.
func (s *Service) RecordPayment(ctx context.Context, payment *models.Payment) error {
	if err := validatePayment(payment); err != nil {
		return err
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return s.repo.Create(ctx, payment)
}

// UpdateStatus moves a ledger entry to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (*models.Payment, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	payment.Status = status
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListLedger returns one cursor page of a property's payments, newest first.
func (s *Service) ListLedger(ctx context.Context, propertyID uuid.UUID, params pagination.Params) (*LedgerPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByProperty(ctx, propertyID, limit+1, cursor)
	if err != nil {
		return nil, err
	}

	page := &LedgerPage{Payments: rows}
	if len(rows) > limit {
		page.Payments = rows[:limit]
		last := page.Payments[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func validatePayment(payment *models.Payment) error {
	if payment == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment is required")
	}

	details := map[string]string{}
	if payment.PropertyID == uuid.Nil {
		details["property_id"] = "is required"
	}
	if payment.Amount.IsNegative() {
		details["amount"] = "must not be negative"
	}
	if payment.PaymentDate.IsZero() {
		details["payment_date"] = "is required"
	}
	if !payment.Method.IsValid() {
		details["method"] = "is invalid"
	}
	if !payment.Status.IsValid() {
		details["status"] = "is invalid"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment").WithDetails(details)
	}
	return nil
}
