package ports

import (
	"context"
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
)

// ActiveSessionRow is a session joined with the linked customer's name.
type ActiveSessionRow struct {
	Session      domain.Session
	CustomerName string // empty for walk-ins
}

// CustomerStatsRow aggregates a customer's parking history.
type CustomerStatsRow struct {
	TotalVisits     int64
	TotalSpentCents int64
	CurrentlyParked bool
	UnpaidCents     int64
}

// SessionRepository defines persistence operations for the session ledger.
type SessionRepository interface {
	// Create persists a new open session and fills its ID.
	Create(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id int64) (*domain.Session, error)
	// FindOpenByPlate returns the most recently opened session for the
	// plate with no exit time. Returns domain.ErrSessionNotFound otherwise.
	FindOpenByPlate(ctx context.Context, plate string) (*domain.Session, error)
	// FindLatestExited returns the most recently exited session for the
	// plate, paid or not. Returns domain.ErrSessionNotFound otherwise.
	FindLatestExited(ctx context.Context, plate string) (*domain.Session, error)
	// Close stamps exit time and fee (fee may be nil when no rate is
	// configured). Guarded by exit_time IS NULL: the loser of a concurrent
	// exit race gets domain.ErrSessionNotFound.
	Close(ctx context.Context, id int64, exitTime time.Time, feeCents *int64) error
	// SetFee fills a missing fee on an exited, unpaid session. Returns
	// domain.ErrFeeAlreadySet when the fee was already computed.
	SetFee(ctx context.Context, id int64, feeCents int64) error
	// ListActive returns open sessions recorded by the given operator.
	ListActive(ctx context.Context, ownerID int64) ([]ActiveSessionRow, error)
	// ListExitLog returns exited sessions, most recent exit first.
	ListExitLog(ctx context.Context, limit int) ([]ActiveSessionRow, error)
	// FindOpenByCustomer returns the customer's currently open session.
	FindOpenByCustomer(ctx context.Context, customerID int64) (*domain.Session, error)
	// ListExitedByCustomer returns the customer's closed sessions, most
	// recent exit first, each with the settling payment method if paid.
	ListExitedByCustomer(ctx context.Context, customerID int64) ([]HistoryRow, error)
	// CustomerStats aggregates visits, spend and open-session state.
	CustomerStats(ctx context.Context, customerID int64) (*CustomerStatsRow, error)
}

// HistoryRow is a closed session plus the method that settled it, if any.
type HistoryRow struct {
	Session       domain.Session
	PaymentMethod *domain.PaymentMethod
}
