package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
	"github.com/rentledger/rentledger-backend/pkg/pagination"
)

type stubPaymentRepo struct {
	completed []models.Payment
	created   []models.Payment
	failOn    map[string]error
}

func (s *stubPaymentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	for name, err := range s.failOn {
		if strings.Contains(payment.Notes, name) {
			return err
		}
	}
	s.created = append(s.created, *payment)
	return nil
}

func (s *stubPaymentRepo) Update(ctx context.Context, payment *models.Payment) error { return nil }

func (s *stubPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) ListCompletedInWindow(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]models.Payment, error) {
	return s.completed, nil
}

func (s *stubPaymentRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Payment, error) {
	return nil, nil
}

type stubFeeRepo struct {
	defs []models.FeeDefinition
}

func (s *stubFeeRepo) WithTx(tx *gorm.DB) fees.Repository                        { return s }
func (s *stubFeeRepo) Create(ctx context.Context, d *models.FeeDefinition) error { return nil }
func (s *stubFeeRepo) Update(ctx context.Context, d *models.FeeDefinition) error { return nil }
func (s *stubFeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FeeDefinition, error) {
	return nil, nil
}
func (s *stubFeeRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.FeeDefinition, error) {
	return s.defs, nil
}

func newFee(name string) models.FeeDefinition {
	return models.FeeDefinition{
		ID:            uuid.New(),
		Name:          name,
		Amount:        decimal.RequireFromString("100"),
		FrequencyKind: enums.FrequencyKindMonthly,
		Active:        true,
	}
}

func TestGenerateOutstandingCreatesPendingPayments(t *testing.T) {
	repo := &stubPaymentRepo{}
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		FeeRepo: &stubFeeRepo{defs: []models.FeeDefinition{newFee("Water"), newFee("Heating")}},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	asOf := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	result, err := svc.GenerateOutstanding(context.Background(), uuid.New(), 2025, 6, asOf)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Created != 2 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}

	for _, payment := range repo.created {
		if payment.Status != enums.PaymentStatusPending {
			t.Fatalf("status = %s", payment.Status)
		}
		if payment.DueDate.Day() != 30 || payment.DueDate.Month() != time.June {
			t.Fatalf("due date = %v, want end of June", payment.DueDate)
		}
		if payment.FeeDefinitionID == nil {
			t.Fatal("generated payment must reference its fee definition")
		}
	}
}

func TestGenerateOutstandingSkipsSatisfiedFees(t *testing.T) {
	water := newFee("Water")
	feeID := water.ID
	repo := &stubPaymentRepo{
		completed: []models.Payment{{
			FeeDefinitionID: &feeID,
			PaymentDate:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			Status:          enums.PaymentStatusCompleted,
		}},
	}
	svc, _ := NewService(ServiceParams{
		Repo:    repo,
		FeeRepo: &stubFeeRepo{defs: []models.FeeDefinition{water}},
	})

	result, err := svc.GenerateOutstanding(context.Background(), uuid.New(), 2025, 6, time.Now())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Created != 0 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestGenerateOutstandingIsBestEffort(t *testing.T) {
	repo := &stubPaymentRepo{
		failOn: map[string]error{"Heating": errors.New("insert failed")},
	}
	svc, _ := NewService(ServiceParams{
		Repo:    repo,
		FeeRepo: &stubFeeRepo{defs: []models.FeeDefinition{newFee("Water"), newFee("Heating"), newFee("Cleaning")}},
	})

	result, err := svc.GenerateOutstanding(context.Background(), uuid.New(), 2025, 6, time.Now())
	if err == nil {
		t.Fatal("expected partial batch error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialBatch {
		t.Fatalf("expected partial batch code, got %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("created = %d, failures must not roll back siblings", result.Created)
	}
	if len(multierr.Errors(result.Failures)) != 1 {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestRequiredPaymentsValidatesMonth(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Repo:    &stubPaymentRepo{},
		FeeRepo: &stubFeeRepo{},
	})
	if _, err := svc.RequiredPayments(context.Background(), uuid.New(), 2025, 13); err == nil {
		t.Fatal("expected validation error for month 13")
	}
}
