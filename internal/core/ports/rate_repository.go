package ports

import (
	"context"

	"github.com/carparking/parking-system/internal/core/domain"
)

// RateRepository defines persistence operations for the rate registry.
type RateRepository interface {
	// Insert atomically deactivates every active rate and inserts a new
	// active one. A failure leaves the previous rate active.
	Insert(ctx context.Context, hourlyRateCents int64) (*domain.Rate, error)
	// FindActive returns the active rate with the most recent created_at.
	// Returns domain.ErrRateNotFound when no rate is active.
	FindActive(ctx context.Context) (*domain.Rate, error)
	// List returns all rates, most recent first.
	List(ctx context.Context) ([]domain.Rate, error)
}
