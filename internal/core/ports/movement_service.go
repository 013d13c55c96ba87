package ports

import (
	"context"
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
)

// EntryInput carries all data needed to record a vehicle entry.
type EntryInput struct {
	Plate string // raw, normalized by the service
	Zone  string // optional
	// ActorID and ActorRole identify the authenticated principal: a
	// customer links the session to themselves, an owner records a walk-in
	// (auto-linked when the plate is registered to a customer).
	ActorID   int64
	ActorRole string
}

// EntryResult is returned after a successful entry.
type EntryResult struct {
	Session      domain.Session
	CustomerName string // resolved name when linked, empty for walk-ins
}

// ExitResult is returned after an exit or a fee recompute.
type ExitResult struct {
	Session  domain.Session
	Duration time.Duration
}

// ActiveVehicle is one row of the operator's active-vehicles view.
type ActiveVehicle struct {
	SessionID    int64
	Plate        string
	EntryTime    time.Time
	Duration     time.Duration
	Zone         domain.Zone
	CustomerName string // "Walk-in" when unlinked
}

// ExitLogEntry is one row of the operator's exit log.
type ExitLogEntry struct {
	SessionID    int64
	Plate        string
	EntryTime    time.Time
	ExitTime     time.Time
	Duration     time.Duration
	FeeCents     *int64
	IsPaid       bool
	CustomerName string
}

// MovementService defines use-case operations for the session ledger.
type MovementService interface {
	RecordEntry(ctx context.Context, input EntryInput) (*EntryResult, error)
	// RecordExit closes the open session for the plate and stamps the fee.
	// When no active rate is configured the exit time is still persisted and
	// domain.ErrRateNotFound is returned (recoverable via RecomputeFee).
	RecordExit(ctx context.Context, plate string) (*ExitResult, error)
	ListActive(ctx context.Context, ownerID int64) ([]ActiveVehicle, error)
	ExitLog(ctx context.Context, limit int) ([]ExitLogEntry, error)
	// RecomputeFee fills a missing fee on an exited, unpaid session using
	// the rate active now. Administrative recovery for exits taken while no
	// rate was configured.
	RecomputeFee(ctx context.Context, sessionID int64) (*ExitResult, error)
}
