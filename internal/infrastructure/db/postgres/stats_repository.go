package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository runs the aggregate queries behind the owner dashboard.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) ActiveVehicleCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE exit_time IS NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var cents int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments
		 WHERE paid_at >= $1 AND paid_at < $2`,
		from, to,
	).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return cents, nil
}

func (r *StatsRepository) AvgDurationHours(ctx context.Context, dayStart, dayEnd time.Time) (float64, error) {
	var hours float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(EXTRACT(EPOCH FROM exit_time - entry_time) / 3600.0), 0)
		 FROM sessions
		 WHERE entry_time >= $1 AND exit_time IS NOT NULL AND exit_time < $2`,
		dayStart, dayEnd,
	).Scan(&hours)
	if err != nil {
		return 0, fmt.Errorf("avg duration: %w", err)
	}
	return hours, nil
}

func (r *StatsRepository) PaidBetween(ctx context.Context, from, to time.Time) (int64, int64, error) {
	var cents, count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM payments
		 WHERE paid_at >= $1 AND paid_at < $2`,
		from, to,
	).Scan(&cents, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("sum paid: %w", err)
	}
	return cents, count, nil
}

func (r *StatsRepository) PendingBetween(ctx context.Context, from, to time.Time) (int64, int64, error) {
	var cents, count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(fee_cents), 0), COUNT(*) FROM sessions
		 WHERE exit_time >= $1 AND exit_time < $2 AND NOT is_paid`,
		from, to,
	).Scan(&cents, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("sum pending: %w", err)
	}
	return cents, count, nil
}
