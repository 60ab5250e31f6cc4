package fees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/pkg/db/models"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
)

type stubRepo struct {
	created []models.FeeDefinition
	updated []models.FeeDefinition
	byID    map[uuid.UUID]*models.FeeDefinition
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[uuid.UUID]*models.FeeDefinition{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, def *models.FeeDefinition) error {
	s.created = append(s.created, *def)
	return nil
}

func (s *stubRepo) Update(ctx context.Context, def *models.FeeDefinition) error {
	s.updated = append(s.updated, *def)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FeeDefinition, error) {
	if def, ok := s.byID[id]; ok {
		copied := *def
		return &copied, nil
	}
	return nil, nil
}

func (s *stubRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.FeeDefinition, error) {
	return nil, nil
}

func validDefinition() *models.FeeDefinition {
	return &models.FeeDefinition{
		PropertyID:    uuid.New(),
		Name:          "Garbage collection",
		Amount:        decimal.NewFromInt(120),
		FrequencyKind: enums.FrequencyKindMonthly,
		Active:        true,
	}
}

func TestCreateDefinitionRejectsMissingParameter(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: newStubRepo()})

	def := validDefinition()
	def.FrequencyKind = enums.FrequencyKindEveryNMonths
	err := svc.CreateDefinition(context.Background(), def)
	if err == nil {
		t.Fatal("expected validation error for missing frequency parameter")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["frequency_parameter"] == "" {
		t.Fatalf("expected field-level detail for frequency_parameter, got %v", typed.Details())
	}
}

func TestCreateDefinitionRejectsOutOfRangeParameter(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: newStubRepo()})

	thirteen := 13
	def := validDefinition()
	def.FrequencyKind = enums.FrequencyKindSpecificMonth
	def.FrequencyParameter = &thirteen
	if err := svc.CreateDefinition(context.Background(), def); err == nil {
		t.Fatal("expected validation error for parameter outside 1..12")
	}
}

func TestCreateDefinitionClearsIrrelevantParameter(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(ServiceParams{Repo: repo})

	five := 5
	def := validDefinition()
	def.FrequencyParameter = &five
	if err := svc.CreateDefinition(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}
	if repo.created[0].FrequencyParameter != nil {
		t.Fatalf("parameter should be cleared for monthly fees")
	}
}

func TestDeactivateDefinitionChecksOwnership(t *testing.T) {
	repo := newStubRepo()
	def := validDefinition()
	def.ID = uuid.New()
	repo.byID[def.ID] = def

	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.DeactivateDefinition(context.Background(), uuid.New(), def.ID)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for foreign property, got %v", err)
	}

	got, err := svc.DeactivateDefinition(context.Background(), def.PropertyID, def.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Active {
		t.Fatal("definition should be inactive after deactivation")
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(repo.updated))
	}
}

func TestDeactivateDefinitionIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	def := validDefinition()
	def.ID = uuid.New()
	def.Active = false
	repo.byID[def.ID] = def

	svc, _ := NewService(ServiceParams{Repo: repo})
	if _, err := svc.DeactivateDefinition(context.Background(), def.PropertyID, def.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatal("already-inactive definition should not be re-saved")
	}
}
