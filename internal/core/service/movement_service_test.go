package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubSessionRepo struct {
	sessions map[int64]*domain.Session
	nextID   int64

	closeErr    error
	lastLimit   int
	activeRows  []ports.ActiveSessionRow
	exitLogRows []ports.ActiveSessionRow
	historyRows []ports.HistoryRow
	statsRow    *ports.CustomerStatsRow
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[int64]*domain.Session{}}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id int64) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSessionRepo) FindOpenByPlate(_ context.Context, plate string) (*domain.Session, error) {
	var latest *domain.Session
	for _, s := range r.sessions {
		if s.Plate == plate && s.ExitTime == nil {
			if latest == nil || s.EntryTime.After(latest.EntryTime) {
				latest = s
			}
		}
	}
	if latest == nil {
		return nil, domain.ErrSessionNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *stubSessionRepo) FindLatestExited(_ context.Context, plate string) (*domain.Session, error) {
	var latest *domain.Session
	for _, s := range r.sessions {
		if s.Plate == plate && s.ExitTime != nil {
			if latest == nil || s.ExitTime.After(*latest.ExitTime) {
				latest = s
			}
		}
	}
	if latest == nil {
		return nil, domain.ErrSessionNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *stubSessionRepo) Close(_ context.Context, id int64, exitTime time.Time, feeCents *int64) error {
	if r.closeErr != nil {
		return r.closeErr
	}
	s, ok := r.sessions[id]
	if !ok || s.ExitTime != nil {
		return domain.ErrSessionNotFound
	}
	t := exitTime
	s.ExitTime = &t
	s.FeeCents = feeCents
	return nil
}

func (r *stubSessionRepo) SetFee(_ context.Context, id int64, feeCents int64) error {
	s, ok := r.sessions[id]
	if !ok || s.ExitTime == nil || s.FeeCents != nil || s.IsPaid {
		return domain.ErrFeeAlreadySet
	}
	s.FeeCents = &feeCents
	return nil
}

func (r *stubSessionRepo) ListActive(_ context.Context, _ int64) ([]ports.ActiveSessionRow, error) {
	return r.activeRows, nil
}

func (r *stubSessionRepo) ListExitLog(_ context.Context, limit int) ([]ports.ActiveSessionRow, error) {
	r.lastLimit = limit
	return r.exitLogRows, nil
}

func (r *stubSessionRepo) FindOpenByCustomer(_ context.Context, customerID int64) (*domain.Session, error) {
	for _, s := range r.sessions {
		if s.ExitTime == nil && s.CustomerID != nil && *s.CustomerID == customerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) ListExitedByCustomer(_ context.Context, _ int64) ([]ports.HistoryRow, error) {
	return r.historyRows, nil
}

func (r *stubSessionRepo) CustomerStats(_ context.Context, _ int64) (*ports.CustomerStatsRow, error) {
	if r.statsRow == nil {
		return &ports.CustomerStatsRow{}, nil
	}
	return r.statsRow, nil
}

type stubCustomerRepo struct {
	users      map[int64]*domain.User
	plateOwner map[string]int64

	addCreditErr error
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{users: map[int64]*domain.User{}, plateOwner: map[string]int64{}}
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubCustomerRepo) AddCredit(_ context.Context, customerID, amountCents int64) (int64, error) {
	if r.addCreditErr != nil {
		return 0, r.addCreditErr
	}
	u, ok := r.users[customerID]
	if !ok {
		return 0, domain.ErrCustomerNotFound
	}
	u.CreditBalanceCents += amountCents
	return u.CreditBalanceCents, nil
}

func (r *stubCustomerRepo) FindByPlate(_ context.Context, plate string) (*domain.User, error) {
	id, ok := r.plateOwner[plate]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return r.FindByID(context.Background(), id)
}

func (r *stubCustomerRepo) ListPlates(_ context.Context, customerID int64) ([]string, error) {
	var out []string
	for plate, owner := range r.plateOwner {
		if owner == customerID {
			out = append(out, plate)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) RegisterPlate(_ context.Context, customerID int64, plate string) error {
	if owner, ok := r.plateOwner[plate]; ok {
		if owner == customerID {
			return domain.ErrPlateRegistered
		}
		return domain.ErrPlateTaken
	}
	r.plateOwner[plate] = customerID
	return nil
}

func (r *stubCustomerRepo) UnregisterPlate(_ context.Context, customerID int64, plate string) error {
	if owner, ok := r.plateOwner[plate]; !ok || owner != customerID {
		return domain.ErrPlateNotFound
	}
	delete(r.plateOwner, plate)
	return nil
}

type stubRateRepo struct {
	active    *domain.Rate
	history   []domain.Rate
	insertErr error
}

func (r *stubRateRepo) Insert(_ context.Context, hourlyRateCents int64) (*domain.Rate, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	if r.active != nil {
		r.active.IsActive = false
	}
	rate := &domain.Rate{
		ID:              int64(len(r.history) + 1),
		HourlyRateCents: hourlyRateCents,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	r.history = append(r.history, *rate)
	r.active = rate
	return rate, nil
}

func (r *stubRateRepo) FindActive(_ context.Context) (*domain.Rate, error) {
	if r.active == nil {
		return nil, domain.ErrRateNotFound
	}
	cp := *r.active
	return &cp, nil
}

func (r *stubRateRepo) List(_ context.Context) ([]domain.Rate, error) {
	return r.history, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newMovementSvc(sessions *stubSessionRepo, customers *stubCustomerRepo, rates *stubRateRepo) *MovementService {
	return NewMovementService(sessions, customers, rates, zerolog.Nop())
}

func seedCustomer(customers *stubCustomerRepo, id int64, name string, plates ...string) {
	customers.users[id] = &domain.User{ID: id, FullName: name, Role: domain.RoleCustomer, IsActive: true}
	for _, p := range plates {
		customers.plateOwner[p] = id
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestMovementService_RecordEntry_OwnerAutoLink(t *testing.T) {
	sessions := newStubSessionRepo()
	customers := newStubCustomerRepo()
	seedCustomer(customers, 7, "Dana Cole", "abc123")

	svc := newMovementSvc(sessions, customers, &stubRateRepo{})
	result, err := svc.RecordEntry(context.Background(), ports.EntryInput{
		Plate:     " ABC 123 ",
		Zone:      "vip",
		ActorID:   1,
		ActorRole: domain.RoleOwner,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Session.Plate != "abc123" {
		t.Errorf("plate not normalized: %q", result.Session.Plate)
	}
	if result.Session.Zone != domain.ZoneVIP {
		t.Errorf("zone = %q, want VIP", result.Session.Zone)
	}
	if result.Session.CustomerID == nil || *result.Session.CustomerID != 7 {
		t.Errorf("expected auto-link to customer 7, got %v", result.Session.CustomerID)
	}
	if result.Session.OwnerID == nil || *result.Session.OwnerID != 1 {
		t.Errorf("expected owner 1 recorded, got %v", result.Session.OwnerID)
	}
	if result.CustomerName != "Dana Cole" {
		t.Errorf("customer name = %q", result.CustomerName)
	}
}

func TestMovementService_RecordEntry_CustomerSelfLink(t *testing.T) {
	sessions := newStubSessionRepo()
	customers := newStubCustomerRepo()
	seedCustomer(customers, 4, "Ravi Shah")

	svc := newMovementSvc(sessions, customers, &stubRateRepo{})
	result, err := svc.RecordEntry(context.Background(), ports.EntryInput{
		Plate:     "xyz987",
		ActorID:   4,
		ActorRole: domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Session.CustomerID == nil || *result.Session.CustomerID != 4 {
		t.Errorf("expected self-link to customer 4, got %v", result.Session.CustomerID)
	}
	if result.Session.OwnerID != nil {
		t.Errorf("owner id should be nil for self-entry")
	}
}

func TestMovementService_RecordEntry_Validation(t *testing.T) {
	svc := newMovementSvc(newStubSessionRepo(), newStubCustomerRepo(), &stubRateRepo{})

	if _, err := svc.RecordEntry(context.Background(), ports.EntryInput{Plate: "   "}); !errors.Is(err, domain.ErrEmptyPlate) {
		t.Errorf("blank plate err = %v, want ErrEmptyPlate", err)
	}
	if _, err := svc.RecordEntry(context.Background(), ports.EntryInput{Plate: "abc123", Zone: "Z"}); !errors.Is(err, domain.ErrInvalidZone) {
		t.Errorf("bad zone err = %v, want ErrInvalidZone", err)
	}
}

func TestMovementService_RecordExit_StampsFee(t *testing.T) {
	sessions := newStubSessionRepo()
	rates := &stubRateRepo{}
	_, _ = rates.Insert(context.Background(), 5_00)

	entry := time.Now().UTC().Add(-(2*time.Hour + 5*time.Minute))
	_ = sessions.Create(context.Background(), &domain.Session{Plate: "abc123", EntryTime: entry})

	svc := newMovementSvc(sessions, newStubCustomerRepo(), rates)
	result, err := svc.RecordExit(context.Background(), "ABC 123")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Session.FeeCents == nil || *result.Session.FeeCents != 15_00 {
		t.Fatalf("fee = %v, want 1500 cents", result.Session.FeeCents)
	}

	stored := sessions.sessions[result.Session.ID]
	if stored.ExitTime == nil || stored.FeeCents == nil {
		t.Errorf("exit not persisted: %+v", stored)
	}
}

func TestMovementService_RecordExit_UnknownPlate(t *testing.T) {
	svc := newMovementSvc(newStubSessionRepo(), newStubCustomerRepo(), &stubRateRepo{})
	if _, err := svc.RecordExit(context.Background(), "nope99"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestMovementService_RecordExit_NoRatePersistsExit(t *testing.T) {
	sessions := newStubSessionRepo()
	_ = sessions.Create(context.Background(), &domain.Session{
		Plate:     "abc123",
		EntryTime: time.Now().UTC().Add(-time.Hour),
	})

	svc := newMovementSvc(sessions, newStubCustomerRepo(), &stubRateRepo{})
	_, err := svc.RecordExit(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrRateNotFound) {
		t.Fatalf("err = %v, want ErrRateNotFound", err)
	}

	stored := sessions.sessions[1]
	if stored.ExitTime == nil {
		t.Errorf("exit time must be persisted even without a rate")
	}
	if stored.FeeCents != nil {
		t.Errorf("fee must stay unset without a rate, got %d", *stored.FeeCents)
	}
}

func TestMovementService_RecomputeFee_Recovers(t *testing.T) {
	sessions := newStubSessionRepo()
	rates := &stubRateRepo{}

	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	exit := entry.Add(90 * time.Minute)
	_ = sessions.Create(context.Background(), &domain.Session{Plate: "abc123", EntryTime: entry, ExitTime: &exit})

	svc := newMovementSvc(sessions, newStubCustomerRepo(), rates)

	// No rate yet: recompute fails the same way the exit did.
	if _, err := svc.RecomputeFee(context.Background(), 1); !errors.Is(err, domain.ErrRateNotFound) {
		t.Fatalf("err = %v, want ErrRateNotFound", err)
	}

	_, _ = rates.Insert(context.Background(), 4_00)
	result, err := svc.RecomputeFee(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Session.FeeCents == nil || *result.Session.FeeCents != 8_00 {
		t.Errorf("fee = %v, want 800 cents for 1.5h at $4", result.Session.FeeCents)
	}
}

func TestMovementService_RecomputeFee_Guards(t *testing.T) {
	sessions := newStubSessionRepo()
	rates := &stubRateRepo{}
	_, _ = rates.Insert(context.Background(), 4_00)
	svc := newMovementSvc(sessions, newStubCustomerRepo(), rates)

	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	exit := entry.Add(time.Hour)
	fee := int64(4_00)

	_ = sessions.Create(context.Background(), &domain.Session{Plate: "open11", EntryTime: entry})
	_ = sessions.Create(context.Background(), &domain.Session{Plate: "paid22", EntryTime: entry, ExitTime: &exit, FeeCents: &fee, IsPaid: true})
	_ = sessions.Create(context.Background(), &domain.Session{Plate: "done33", EntryTime: entry, ExitTime: &exit, FeeCents: &fee})

	if _, err := svc.RecomputeFee(context.Background(), 1); !errors.Is(err, domain.ErrNotExited) {
		t.Errorf("open session err = %v, want ErrNotExited", err)
	}
	if _, err := svc.RecomputeFee(context.Background(), 2); !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Errorf("paid session err = %v, want ErrAlreadyPaid", err)
	}
	if _, err := svc.RecomputeFee(context.Background(), 3); !errors.Is(err, domain.ErrFeeAlreadySet) {
		t.Errorf("fee-set session err = %v, want ErrFeeAlreadySet", err)
	}
}

func TestMovementService_ExitLog_DefaultLimit(t *testing.T) {
	sessions := newStubSessionRepo()
	svc := newMovementSvc(sessions, newStubCustomerRepo(), &stubRateRepo{})

	if _, err := svc.ExitLog(context.Background(), 0); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sessions.lastLimit != 50 {
		t.Errorf("default limit = %d, want 50", sessions.lastLimit)
	}
}

func TestMovementService_ListActive_WalkInFallback(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.activeRows = []ports.ActiveSessionRow{
		{Session: domain.Session{ID: 1, Plate: "abc123", EntryTime: time.Now().UTC().Add(-time.Hour)}},
		{Session: domain.Session{ID: 2, Plate: "xyz987", EntryTime: time.Now().UTC()}, CustomerName: "Dana Cole"},
	}

	svc := newMovementSvc(sessions, newStubCustomerRepo(), &stubRateRepo{})
	vehicles, err := svc.ListActive(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if vehicles[0].CustomerName != "Walk-in" {
		t.Errorf("unlinked session name = %q, want Walk-in", vehicles[0].CustomerName)
	}
	if vehicles[1].CustomerName != "Dana Cole" {
		t.Errorf("linked session name = %q", vehicles[1].CustomerName)
	}
}
