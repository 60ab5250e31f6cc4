package settlements

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/internal/leases"
	"github.com/rentledger/rentledger-backend/internal/meters"
	"github.com/rentledger/rentledger-backend/pkg/db/models"
	dbtypes "github.com/rentledger/rentledger-backend/pkg/db/types"
	"github.com/rentledger/rentledger-backend/pkg/enums"
	pkgerrors "github.com/rentledger/rentledger-backend/pkg/errors"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubSettlementRepo struct {
	byID     map[uuid.UUID]*models.MonthlySettlement
	byPeriod map[string]*models.MonthlySettlement
	created  int
	updated  int
	deleted  int
}

func newStubSettlementRepo() *stubSettlementRepo {
	return &stubSettlementRepo{
		byID:     map[uuid.UUID]*models.MonthlySettlement{},
		byPeriod: map[string]*models.MonthlySettlement{},
	}
}

func periodKey(leaseID uuid.UUID, year, month int) string {
	return leaseID.String() + "/" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (s *stubSettlementRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubSettlementRepo) Create(ctx context.Context, settlement *models.MonthlySettlement) error {
	if settlement.ID == uuid.Nil {
		settlement.ID = uuid.New()
	}
	copied := *settlement
	s.byID[settlement.ID] = &copied
	s.byPeriod[periodKey(settlement.LeaseID, settlement.Year, settlement.Month)] = &copied
	s.created++
	return nil
}

func (s *stubSettlementRepo) Update(ctx context.Context, settlement *models.MonthlySettlement) error {
	copied := *settlement
	s.byID[settlement.ID] = &copied
	s.updated++
	return nil
}

func (s *stubSettlementRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MonthlySettlement, error) {
	if settlement, ok := s.byID[id]; ok {
		copied := *settlement
		return &copied, nil
	}
	return nil, nil
}

func (s *stubSettlementRepo) FindByLeasePeriod(ctx context.Context, leaseID uuid.UUID, year, month int) (*models.MonthlySettlement, error) {
	if settlement, ok := s.byPeriod[periodKey(leaseID, year, month)]; ok {
		copied := *settlement
		return &copied, nil
	}
	return nil, nil
}

func (s *stubSettlementRepo) ListByLeaseRange(ctx context.Context, leaseID uuid.UUID, startYear, startMonth, endYear, endMonth int) ([]models.MonthlySettlement, error) {
	return nil, nil
}

func (s *stubSettlementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	s.deleted++
	return nil
}

type stubLeaseRepo struct {
	lease *models.Lease
}

func (s *stubLeaseRepo) WithTx(tx *gorm.DB) leases.Repository              { return s }
func (s *stubLeaseRepo) Create(ctx context.Context, l *models.Lease) error { return nil }
func (s *stubLeaseRepo) Update(ctx context.Context, l *models.Lease) error { return nil }
func (s *stubLeaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	if s.lease != nil && s.lease.ID == id {
		copied := *s.lease
		return &copied, nil
	}
	return nil, nil
}
func (s *stubLeaseRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.Lease, error) {
	return nil, nil
}

type stubFeeRepo struct {
	defs []models.FeeDefinition
}

func (s *stubFeeRepo) WithTx(tx *gorm.DB) fees.Repository                          { return s }
func (s *stubFeeRepo) Create(ctx context.Context, d *models.FeeDefinition) error   { return nil }
func (s *stubFeeRepo) Update(ctx context.Context, d *models.FeeDefinition) error   { return nil }
func (s *stubFeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FeeDefinition, error) {
	return nil, nil
}
func (s *stubFeeRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]models.FeeDefinition, error) {
	return s.defs, nil
}

type stubMeterRepo struct {
	meters []models.MeterDefinition
}

func (s *stubMeterRepo) WithTx(tx *gorm.DB) meters.Repository                       { return s }
func (s *stubMeterRepo) Create(ctx context.Context, m *models.MeterDefinition) error { return nil }
func (s *stubMeterRepo) Update(ctx context.Context, m *models.MeterDefinition) error { return nil }
func (s *stubMeterRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MeterDefinition, error) {
	return nil, nil
}
func (s *stubMeterRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.MeterDefinition, error) {
	return s.meters, nil
}

func newTestService(t *testing.T, repo *stubSettlementRepo, lease *models.Lease, feeDefs []models.FeeDefinition, meterDefs []models.MeterDefinition) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Tx:        stubTx{},
		Repo:      repo,
		LeaseRepo: &stubLeaseRepo{lease: lease},
		FeeRepo:   &stubFeeRepo{defs: feeDefs},
		MeterRepo: &stubMeterRepo{meters: meterDefs},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testLease() *models.Lease {
	return &models.Lease{
		ID:         uuid.New(),
		PropertyID: uuid.New(),
		TenantName: "Jordan Reyes",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount: dec("800"),
		Active:     true,
	}
}

func TestCreateRejectsDuplicatePeriod(t *testing.T) {
	repo := newStubSettlementRepo()
	lease := testLease()
	svc := newTestService(t, repo, lease, nil, nil)

	input := CreateInput{LeaseID: lease.ID, Year: 2025, Month: 3}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for duplicate period, got %v", err)
	}
	if repo.created != 1 {
		t.Fatalf("duplicate attempt must not write, created = %d", repo.created)
	}
}

func TestCreateProposesDefaultComponents(t *testing.T) {
	repo := newStubSettlementRepo()
	lease := testLease()
	meterID := uuid.New()
	feeDefs := []models.FeeDefinition{{
		PropertyID:    lease.PropertyID,
		Name:          "Garbage collection",
		Amount:        dec("120"),
		FrequencyKind: enums.FrequencyKindMonthly,
		Active:        true,
	}}
	meterDefs := []models.MeterDefinition{{
		ID:             meterID,
		PropertyID:     lease.PropertyID,
		Name:           "Electricity",
		Unit:           "kWh",
		UnitPrice:      dec("2.5"),
		CurrentReading: dec("100"),
	}}
	svc := newTestService(t, repo, lease, feeDefs, meterDefs)

	settlement, err := svc.Create(context.Background(), CreateInput{
		LeaseID:  lease.ID,
		Year:     2025,
		Month:    3,
		Readings: map[uuid.UUID]decimal.Decimal{meterID: dec("150")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(settlement.Components) != 3 {
		t.Fatalf("components = %d, want rent + fee + meter", len(settlement.Components))
	}
	// rent 800 + fee 120 + meter 50 * 2.5 = 1045
	if !settlement.TotalAmount.Equal(dec("1045")) {
		t.Fatalf("total = %s, want 1045", settlement.TotalAmount)
	}
	meterComp := settlement.Components[2]
	if meterComp.Meter == nil || !meterComp.Meter.Consumption.Equal(dec("50")) {
		t.Fatalf("meter snapshot = %+v", meterComp.Meter)
	}
	if settlement.Status != enums.SettlementStatusIssued {
		t.Fatalf("status = %s", settlement.Status)
	}
}

func TestAddComponentRecomputesTotalInTx(t *testing.T) {
	repo := newStubSettlementRepo()
	lease := testLease()
	svc := newTestService(t, repo, lease, nil, nil)

	settlement, err := svc.Create(context.Background(), CreateInput{
		LeaseID:    lease.ID,
		Year:       2025,
		Month:      4,
		Components: dbtypes.ComponentList{activeComponent("Rent", "200")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := activeComponent("Disputed charge", "50")
	inactive.Status = enums.ComponentStatusInactive
	updated, err := svc.AddComponent(context.Background(), settlement.ID, inactive)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !updated.TotalAmount.Equal(dec("200")) {
		t.Fatalf("total = %s, inactive component must not count", updated.TotalAmount)
	}
	if len(updated.Components) != 2 {
		t.Fatalf("components = %d", len(updated.Components))
	}
	if repo.updated != 1 {
		t.Fatalf("updates = %d", repo.updated)
	}
}

func TestMarkPaidRejectsAlreadyPaid(t *testing.T) {
	repo := newStubSettlementRepo()
	lease := testLease()
	svc := newTestService(t, repo, lease, nil, nil)

	settlement, err := svc.Create(context.Background(), CreateInput{
		LeaseID:    lease.ID,
		Year:       2025,
		Month:      5,
		Components: dbtypes.ComponentList{activeComponent("Rent", "800")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paidAt := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	paid, err := svc.MarkPaid(context.Background(), settlement.ID, paidAt)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.PaidAt == nil || !paid.PaidAt.Equal(paidAt) {
		t.Fatalf("paid at = %v", paid.PaidAt)
	}

	_, err = svc.MarkPaid(context.Background(), settlement.ID, paidAt.Add(time.Hour))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on second mark-paid, got %v", err)
	}
}

func TestMarkUnpaidOnlyFromIssued(t *testing.T) {
	repo := newStubSettlementRepo()
	lease := testLease()
	svc := newTestService(t, repo, lease, nil, nil)

	settlement, err := svc.Create(context.Background(), CreateInput{
		LeaseID:    lease.ID,
		Year:       2025,
		Month:      6,
		Components: dbtypes.ComponentList{activeComponent("Rent", "800")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	unpaid, err := svc.MarkUnpaid(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}
	if unpaid.Status != enums.SettlementStatusUnpaid {
		t.Fatalf("status = %s", unpaid.Status)
	}

	_, err = svc.MarkUnpaid(context.Background(), settlement.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeleteRemovesSettlement(t *testing.T) {
	repo := newStubSettlementRepo()
	lease := testLease()
	svc := newTestService(t, repo, lease, nil, nil)

	settlement, err := svc.Create(context.Background(), CreateInput{
		LeaseID:    lease.ID,
		Year:       2025,
		Month:      7,
		Components: dbtypes.ComponentList{activeComponent("Rent", "800")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), settlement.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted != 1 {
		t.Fatalf("deleted = %d", repo.deleted)
	}

	_, err = svc.Get(context.Background(), settlement.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
