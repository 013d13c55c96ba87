package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/api/metrics"
	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

const defaultExitLogLimit = 50

// MovementService implements the session ledger: vehicle entry, exit with
// fee stamping, operator views and the fee-recompute recovery path.
type MovementService struct {
	sessions  ports.SessionRepository
	customers ports.CustomerRepository
	rates     ports.RateRepository
	logger    zerolog.Logger
}

func NewMovementService(
	sessions ports.SessionRepository,
	customers ports.CustomerRepository,
	rates ports.RateRepository,
	logger zerolog.Logger,
) *MovementService {
	return &MovementService{
		sessions:  sessions,
		customers: customers,
		rates:     rates,
		logger:    logger,
	}
}

// RecordEntry opens a new session for the plate. A customer actor is linked
// to the session directly; an owner actor records a walk-in, auto-linked
// when the plate is registered to a customer account. A pre-existing open
// session for the same plate is deliberately not checked for.
func (s *MovementService) RecordEntry(ctx context.Context, input ports.EntryInput) (*ports.EntryResult, error) {
	plate := domain.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, domain.ErrEmptyPlate
	}

	zone, err := domain.ParseZone(input.Zone)
	if err != nil {
		return nil, err
	}

	var (
		customerID   *int64
		ownerID      *int64
		customerName string
	)

	switch input.ActorRole {
	case domain.RoleCustomer:
		id := input.ActorID
		customerID = &id
		if u, err := s.customers.FindByID(ctx, id); err == nil {
			customerName = u.FullName
		}
	case domain.RoleOwner:
		id := input.ActorID
		ownerID = &id
		if u, err := s.customers.FindByPlate(ctx, plate); err == nil {
			customerID = &u.ID
			customerName = u.FullName
		} else if !errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, err
		}
	default:
		// Gate-feed entries carry no operator; still auto-link by plate.
		if u, err := s.customers.FindByPlate(ctx, plate); err == nil {
			customerID = &u.ID
			customerName = u.FullName
		} else if !errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, err
		}
	}

	session := &domain.Session{
		Plate:      plate,
		EntryTime:  time.Now().UTC(),
		CustomerID: customerID,
		OwnerID:    ownerID,
		Zone:       zone,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("plate", plate).Msg("failed to record entry")
		return nil, err
	}

	metrics.EntriesTotal.WithLabelValues(zoneLabel(zone)).Inc()
	s.logger.Info().
		Str("plate", plate).
		Int64("session_id", session.ID).
		Bool("linked", customerID != nil).
		Msg("vehicle entry recorded")

	return &ports.EntryResult{Session: *session, CustomerName: customerName}, nil
}

// RecordExit closes the open session for the plate and stamps the fee from
// the active rate. When no rate is configured the exit time is persisted
// anyway and domain.ErrRateNotFound is returned; the session stays payable
// once an operator runs RecomputeFee.
func (s *MovementService) RecordExit(ctx context.Context, rawPlate string) (*ports.ExitResult, error) {
	plate := domain.NormalizePlate(rawPlate)

	session, err := s.sessions.FindOpenByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	exitTime := time.Now().UTC()

	rate, rateErr := s.rates.FindActive(ctx)
	if rateErr != nil {
		if !errors.Is(rateErr, domain.ErrRateNotFound) {
			return nil, rateErr
		}
		// Partial failure by design: the vehicle has left, so the exit must
		// be persisted even though the fee cannot be computed yet.
		if err := s.sessions.Close(ctx, session.ID, exitTime, nil); err != nil {
			return nil, err
		}
		s.logger.Warn().Str("plate", plate).Int64("session_id", session.ID).Msg("exit recorded without fee: no active rate")
		metrics.ExitsTotal.WithLabelValues("no_rate").Inc()
		return nil, domain.ErrRateNotFound
	}

	fee := domain.ParkingFee(session.EntryTime, exitTime, rate.HourlyRateCents)
	if err := s.sessions.Close(ctx, session.ID, exitTime, &fee); err != nil {
		return nil, err
	}

	session.ExitTime = &exitTime
	session.FeeCents = &fee

	metrics.ExitsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("plate", plate).
		Int64("session_id", session.ID).
		Int64("fee_cents", fee).
		Msg("vehicle exit recorded")

	return &ports.ExitResult{Session: *session, Duration: exitTime.Sub(session.EntryTime)}, nil
}

// ListActive returns the operator's currently parked vehicles.
func (s *MovementService) ListActive(ctx context.Context, ownerID int64) ([]ports.ActiveVehicle, error) {
	rows, err := s.sessions.ListActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]ports.ActiveVehicle, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.ActiveVehicle{
			SessionID:    row.Session.ID,
			Plate:        row.Session.Plate,
			EntryTime:    row.Session.EntryTime,
			Duration:     row.Session.Duration(now),
			Zone:         row.Session.Zone,
			CustomerName: nameOrWalkIn(row.CustomerName),
		})
	}
	return out, nil
}

// ExitLog returns exited sessions, most recent first, bounded by limit
// (default 50).
func (s *MovementService) ExitLog(ctx context.Context, limit int) ([]ports.ExitLogEntry, error) {
	if limit <= 0 {
		limit = defaultExitLogLimit
	}

	rows, err := s.sessions.ListExitLog(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]ports.ExitLogEntry, 0, len(rows))
	for _, row := range rows {
		entry := ports.ExitLogEntry{
			SessionID:    row.Session.ID,
			Plate:        row.Session.Plate,
			EntryTime:    row.Session.EntryTime,
			FeeCents:     row.Session.FeeCents,
			IsPaid:       row.Session.IsPaid,
			CustomerName: nameOrWalkIn(row.CustomerName),
		}
		if row.Session.ExitTime != nil {
			entry.ExitTime = *row.Session.ExitTime
			entry.Duration = row.Session.ExitTime.Sub(row.Session.EntryTime)
		}
		out = append(out, entry)
	}
	return out, nil
}

// RecomputeFee fills a missing fee on an exited, unpaid session using the
// rate active now. Recovery for exits taken while no rate was configured.
func (s *MovementService) RecomputeFee(ctx context.Context, sessionID int64) (*ports.ExitResult, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsOpen() {
		return nil, domain.ErrNotExited
	}
	if session.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if session.FeeCents != nil {
		return nil, domain.ErrFeeAlreadySet
	}

	rate, err := s.rates.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	fee := domain.ParkingFee(session.EntryTime, *session.ExitTime, rate.HourlyRateCents)
	if err := s.sessions.SetFee(ctx, session.ID, fee); err != nil {
		return nil, err
	}
	session.FeeCents = &fee

	s.logger.Info().Int64("session_id", session.ID).Int64("fee_cents", fee).Msg("fee recomputed")
	return &ports.ExitResult{Session: *session, Duration: session.ExitTime.Sub(session.EntryTime)}, nil
}

func nameOrWalkIn(name string) string {
	if name == "" {
		return "Walk-in"
	}
	return name
}

func zoneLabel(z domain.Zone) string {
	if z == "" {
		return "none"
	}
	return string(z)
}
