package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carparking/parking-system/internal/core/domain"
)

// RateRepository persists the hourly-rate history.
type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// Insert deactivates every active rate and inserts the new active one in a
// single transaction, so a failure can never leave zero active rates.
func (r *RateRepository) Insert(ctx context.Context, hourlyRateCents int64) (*domain.Rate, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE rates SET is_active = FALSE WHERE is_active`); err != nil {
		return nil, fmt.Errorf("deactivate rates: %w", err)
	}

	var rate domain.Rate
	err = tx.QueryRow(ctx,
		`INSERT INTO rates (hourly_rate_cents, is_active, created_at)
		 VALUES ($1, TRUE, now())
		 RETURNING id, hourly_rate_cents, is_active, created_at`,
		hourlyRateCents,
	).Scan(&rate.ID, &rate.HourlyRateCents, &rate.IsActive, &rate.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert rate: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &rate, nil
}

// FindActive returns the most recently created active rate. The ordering is
// a defensive tie-break in case the single-active invariant is ever broken.
func (r *RateRepository) FindActive(ctx context.Context) (*domain.Rate, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, hourly_rate_cents, is_active, created_at
		 FROM rates
		 WHERE is_active
		 ORDER BY created_at DESC
		 LIMIT 1`,
	)

	var rate domain.Rate
	if err := row.Scan(&rate.ID, &rate.HourlyRateCents, &rate.IsActive, &rate.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRateNotFound
		}
		return nil, fmt.Errorf("select active rate: %w", err)
	}
	return &rate, nil
}

// List returns the full rate history, most recent first.
func (r *RateRepository) List(ctx context.Context) ([]domain.Rate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, hourly_rate_cents, is_active, created_at
		 FROM rates
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select rates: %w", err)
	}
	defer rows.Close()

	var out []domain.Rate
	for rows.Next() {
		var rate domain.Rate
		if err := rows.Scan(&rate.ID, &rate.HourlyRateCents, &rate.IsActive, &rate.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		out = append(out, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}
