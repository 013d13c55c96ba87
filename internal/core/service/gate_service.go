package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/api/metrics"
	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) for gate events.
// Gate controllers retry on network failure, so the same movement can
// arrive more than once.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, plate, direction string, ts time.Time) (bool, error)
	Mark(ctx context.Context, plate, direction string, ts time.Time) error
}

type gateService struct {
	movements ports.MovementService
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewGateService returns a GateService implementation that processes
// barrier movements through the session ledger.
func NewGateService(movements ports.MovementService, dedup DedupChecker, log zerolog.Logger) ports.GateService {
	return &gateService{movements: movements, dedup: dedup, log: log}
}

// Process validates, deduplicates, and applies a single gate event.
func (s *gateService) Process(ctx context.Context, in ports.GateEventInput) error {
	start := time.Now()
	plate := domain.NormalizePlate(in.Plate)
	if plate == "" {
		metrics.GateErrorsTotal.WithLabelValues("empty_plate").Inc()
		return domain.ErrEmptyPlate
	}

	direction := domain.GateDirection(in.Direction)
	if direction != domain.GateEntry && direction != domain.GateExit {
		metrics.GateErrorsTotal.WithLabelValues("bad_direction").Inc()
		return fmt.Errorf("gate event: unknown direction %q", in.Direction)
	}

	isDup, err := s.dedup.IsDuplicate(ctx, plate, string(direction), in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("plate", plate).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.GateDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("plate", plate).Str("direction", string(direction)).Msg("duplicate gate event skipped")
		return nil
	}
	metrics.GateDedupTotal.WithLabelValues("miss").Inc()

	// Mark before applying so a crash-retry loop cannot double-process.
	if markErr := s.dedup.Mark(ctx, plate, string(direction), in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("plate", plate).Msg("failed to set dedup key")
	}

	switch direction {
	case domain.GateEntry:
		_, err = s.movements.RecordEntry(ctx, ports.EntryInput{
			Plate: plate,
			Zone:  in.Zone,
		})
	case domain.GateExit:
		_, err = s.movements.RecordExit(ctx, plate)
		// An exit with no configured rate still persists the exit; the
		// session is recovered later via the fee-recompute path.
		if errors.Is(err, domain.ErrRateNotFound) {
			s.log.Warn().Str("plate", plate).Str("gate", in.GateID).Msg("gate exit recorded without fee")
			err = nil
		}
	}
	if err != nil {
		metrics.GateErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return fmt.Errorf("gate event %s/%s: %w", in.GateID, direction, err)
	}

	metrics.GateProcessedTotal.WithLabelValues(string(direction)).Inc()
	metrics.GateProcessingDuration.WithLabelValues(string(direction)).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("plate", plate).
		Str("direction", string(direction)).
		Str("gate", in.GateID).
		Msg("gate event processed")
	return nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, domain.ErrInvalidZone):
		return "invalid_zone"
	default:
		return "apply_failed"
	}
}
