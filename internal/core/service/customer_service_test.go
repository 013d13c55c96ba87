package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

func newCustomerFixture() (*CustomerService, *stubCustomerRepo, *stubSessionRepo, *stubRateRepo) {
	customers := newStubCustomerRepo()
	sessions := newStubSessionRepo()
	rates := &stubRateRepo{}
	rateSvc := NewRateService(rates, nil, zerolog.Nop())
	svc := NewCustomerService(customers, sessions, rateSvc, zerolog.Nop())
	return svc, customers, sessions, rates
}

func TestCustomerService_AddCredit_Bounds(t *testing.T) {
	svc, customers, _, _ := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole")

	balance, err := svc.AddCredit(context.Background(), ports.AddCreditInput{CustomerID: 7, AmountCents: 100_00})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if balance != 100_00 {
		t.Errorf("balance = %d, want 10000", balance)
	}

	for _, cents := range []int64{0, 99, 10_000_01, -5_00} {
		if _, err := svc.AddCredit(context.Background(), ports.AddCreditInput{CustomerID: 7, AmountCents: cents}); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("AddCredit(%d) err = %v, want ErrInvalidAmount", cents, err)
		}
	}

	// Boundaries are inclusive.
	for _, cents := range []int64{1_00, 10_000_00} {
		if _, err := svc.AddCredit(context.Background(), ports.AddCreditInput{CustomerID: 7, AmountCents: cents}); err != nil {
			t.Errorf("AddCredit(%d) err = %v, want nil", cents, err)
		}
	}
}

func TestCustomerService_PlateRegistration(t *testing.T) {
	svc, customers, _, _ := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole")
	seedCustomer(customers, 8, "Ravi Shah")

	plates, err := svc.RegisterPlate(context.Background(), 7, " ABC 123 ")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(plates) != 1 || plates[0] != "ABC123" {
		t.Errorf("plates = %v, want [ABC123] displayed upper", plates)
	}

	// Same customer, same plate: rejected, not silently ignored.
	if _, err := svc.RegisterPlate(context.Background(), 7, "abc123"); !errors.Is(err, domain.ErrPlateRegistered) {
		t.Errorf("duplicate err = %v, want ErrPlateRegistered", err)
	}
	// Another customer: the plate is globally claimed.
	if _, err := svc.RegisterPlate(context.Background(), 8, "ABC123"); !errors.Is(err, domain.ErrPlateTaken) {
		t.Errorf("taken err = %v, want ErrPlateTaken", err)
	}

	if _, err := svc.UnregisterPlate(context.Background(), 8, "abc123"); !errors.Is(err, domain.ErrPlateNotFound) {
		t.Errorf("foreign unregister err = %v, want ErrPlateNotFound", err)
	}
	plates, err = svc.UnregisterPlate(context.Background(), 7, "abc123")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(plates) != 0 {
		t.Errorf("plates after unregister = %v, want empty", plates)
	}
}

func TestCustomerService_ListPlates_Display(t *testing.T) {
	svc, customers, _, _ := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole", "abc123", "xyz987")

	plates, err := svc.ListPlates(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	sort.Strings(plates)
	if len(plates) != 2 || plates[0] != "ABC123" || plates[1] != "XYZ987" {
		t.Errorf("plates = %v", plates)
	}
}

func TestCustomerService_CurrentParking(t *testing.T) {
	svc, customers, sessions, rates := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole")
	_, _ = rates.Insert(context.Background(), 5_00)

	// Not parked.
	parking, err := svc.CurrentParking(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parking.IsParked {
		t.Errorf("expected not parked")
	}

	customerID := int64(7)
	_ = sessions.Create(context.Background(), &domain.Session{
		Plate:      "abc123",
		EntryTime:  time.Now().UTC().Add(-(2*time.Hour + 5*time.Minute)),
		CustomerID: &customerID,
		Zone:       domain.ZoneB,
	})

	parking, err = svc.CurrentParking(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !parking.IsParked || parking.Plate != "abc123" || parking.Zone != domain.ZoneB {
		t.Errorf("unexpected parking: %+v", parking)
	}
	if parking.EstimatedFeeCents != 15_00 {
		t.Errorf("estimated fee = %d, want 1500", parking.EstimatedFeeCents)
	}
}

func TestCustomerService_CurrentParking_NoRate(t *testing.T) {
	svc, customers, sessions, _ := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole")
	customerID := int64(7)
	_ = sessions.Create(context.Background(), &domain.Session{
		Plate:      "abc123",
		EntryTime:  time.Now().UTC().Add(-time.Hour),
		CustomerID: &customerID,
	})

	parking, err := svc.CurrentParking(context.Background(), 7)
	if err != nil {
		t.Fatalf("a missing rate must not fail the view, got: %v", err)
	}
	if !parking.IsParked || parking.EstimatedFeeCents != 0 {
		t.Errorf("expected parked with zero estimate, got %+v", parking)
	}
}

func TestCustomerService_ParkingHistory(t *testing.T) {
	svc, customers, sessions, _ := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole")

	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	exit := entry.Add(3 * time.Hour)
	fee := int64(12_00)
	method := domain.MethodCash
	sessions.historyRows = []ports.HistoryRow{
		{
			Session:       domain.Session{ID: 3, Plate: "abc123", EntryTime: entry, ExitTime: &exit, FeeCents: &fee, IsPaid: true},
			PaymentMethod: &method,
		},
	}

	history, err := svc.ParkingHistory(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d", len(history))
	}
	e := history[0]
	if e.Duration != 3*time.Hour || !e.IsPaid || e.PaymentMethod == nil || *e.PaymentMethod != domain.MethodCash {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestCustomerService_Stats(t *testing.T) {
	svc, customers, sessions, _ := newCustomerFixture()
	seedCustomer(customers, 7, "Dana Cole")
	sessions.statsRow = &ports.CustomerStatsRow{
		TotalVisits:     5,
		TotalSpentCents: 60_00,
		CurrentlyParked: true,
		UnpaidCents:     15_00,
	}

	stats, err := svc.Stats(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if stats.TotalVisits != 5 || stats.TotalSpentCents != 60_00 || !stats.CurrentlyParked || stats.UnpaidCents != 15_00 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
