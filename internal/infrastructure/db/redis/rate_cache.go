package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carparking/parking-system/internal/core/domain"
)

const (
	rateCacheKey = "rates:active"
	rateCacheTTL = 5 * time.Minute
)

// RateCache is a read-through cache for the active parking rate. Entries
// expire after a short TTL and are dropped eagerly whenever the rate
// changes, so a stale read window only exists across process boundaries.
type RateCache struct {
	client *redis.Client
}

func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{client: client}
}

// Get returns the cached active rate, or (nil, nil) on a miss.
func (c *RateCache) Get(ctx context.Context) (*domain.Rate, error) {
	raw, err := c.client.Get(ctx, rateCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("rate cache get: %w", err)
	}

	var rate domain.Rate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return nil, fmt.Errorf("rate cache decode: %w", err)
	}
	return &rate, nil
}

func (c *RateCache) Set(ctx context.Context, rate *domain.Rate) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("rate cache encode: %w", err)
	}
	return c.client.Set(ctx, rateCacheKey, raw, rateCacheTTL).Err()
}

func (c *RateCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rateCacheKey).Err()
}
