package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// RateCache abstracts the read-through cache in front of the active rate
// (Redis). A nil cache disables caching.
type RateCache interface {
	// Get returns the cached active rate, or (nil, nil) on a miss.
	Get(ctx context.Context) (*domain.Rate, error)
	Set(ctx context.Context, rate *domain.Rate) error
	Invalidate(ctx context.Context) error
}

// RateService maintains the rate registry: a history of hourly rates of
// which at most one is active.
type RateService struct {
	repo   ports.RateRepository
	cache  RateCache
	logger zerolog.Logger
}

func NewRateService(repo ports.RateRepository, cache RateCache, logger zerolog.Logger) *RateService {
	return &RateService{repo: repo, cache: cache, logger: logger}
}

// AddRate deactivates the current rate and activates a new one in a single
// transaction, then drops the cached rate.
func (s *RateService) AddRate(ctx context.Context, hourlyRateCents int64) (*domain.Rate, error) {
	if hourlyRateCents <= 0 {
		return nil, domain.ErrInvalidRate
	}

	rate, err := s.repo.Insert(ctx, hourlyRateCents)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to add rate")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate rate cache")
		}
	}

	s.logger.Info().Int64("rate_id", rate.ID).Int64("hourly_rate_cents", rate.HourlyRateCents).Msg("rate updated")
	return rate, nil
}

// CurrentRate returns the active rate, consulting the cache first.
func (s *RateService) CurrentRate(ctx context.Context) (*domain.Rate, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("rate cache read failed, falling back to store")
		} else if cached != nil {
			return cached, nil
		}
	}

	rate, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rate); err != nil {
			s.logger.Warn().Err(err).Msg("failed to set rate cache")
		}
	}

	return rate, nil
}

// ListRates returns the full rate history, most recent first.
func (s *RateService) ListRates(ctx context.Context) ([]domain.Rate, error) {
	return s.repo.List(ctx)
}
