package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks for gate events backed by Redis.
// Key format: gate:dedup:<plate>:<direction>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact gate event was already processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, plate, direction string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(plate, direction, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this gate event has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, plate, direction string, ts time.Time) error {
	return d.client.Set(ctx, d.key(plate, direction, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(plate, direction string, ts time.Time) string {
	return fmt.Sprintf("gate:dedup:%s:%s:%d", plate, direction, ts.Unix())
}
