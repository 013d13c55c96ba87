package ports

import (
	"context"

	"github.com/carparking/parking-system/internal/core/domain"
)

// RateService defines use-case operations for the rate registry.
type RateService interface {
	AddRate(ctx context.Context, hourlyRateCents int64) (*domain.Rate, error)
	CurrentRate(ctx context.Context) (*domain.Rate, error)
	ListRates(ctx context.Context) ([]domain.Rate, error)
}
