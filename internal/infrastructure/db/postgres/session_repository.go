package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

const sessionColumns = `id, plate, entry_time, exit_time, fee_cents, is_paid, customer_id, owner_id, zone`

// SessionRepository persists the session ledger.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create persists a new open session and fills its ID.
func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (plate, entry_time, customer_id, owner_id, zone)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 RETURNING id`,
		s.Plate, s.EntryTime, s.CustomerID, s.OwnerID, string(s.Zone),
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id int64) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

// FindOpenByPlate returns the most recently opened session for the plate
// that has no exit time.
func (r *SessionRepository) FindOpenByPlate(ctx context.Context, plate string) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE plate = $1 AND exit_time IS NULL
		 ORDER BY entry_time DESC
		 LIMIT 1`,
		plate,
	)
	return scanSession(row)
}

// FindLatestExited returns the most recently exited session for the plate.
func (r *SessionRepository) FindLatestExited(ctx context.Context, plate string) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE plate = $1 AND exit_time IS NOT NULL
		 ORDER BY exit_time DESC
		 LIMIT 1`,
		plate,
	)
	return scanSession(row)
}

// Close stamps exit time and fee. The exit_time IS NULL guard makes the
// update race-safe: the loser of two concurrent exits affects zero rows.
func (r *SessionRepository) Close(ctx context.Context, id int64, exitTime time.Time, feeCents *int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET exit_time = $2, fee_cents = $3
		 WHERE id = $1 AND exit_time IS NULL`,
		id, exitTime, feeCents,
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// SetFee fills a missing fee on an exited, unpaid session.
func (r *SessionRepository) SetFee(ctx context.Context, id int64, feeCents int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET fee_cents = $2
		 WHERE id = $1 AND exit_time IS NOT NULL AND fee_cents IS NULL AND NOT is_paid`,
		id, feeCents,
	)
	if err != nil {
		return fmt.Errorf("set fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFeeAlreadySet
	}
	return nil
}

// ListActive returns open sessions recorded by the given operator, joined
// with the linked customer's name.
func (r *SessionRepository) ListActive(ctx context.Context, ownerID int64) ([]ports.ActiveSessionRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.plate, s.entry_time, s.exit_time, s.fee_cents, s.is_paid,
		        s.customer_id, s.owner_id, s.zone, COALESCE(u.full_name, '')
		 FROM sessions s
		 LEFT JOIN users u ON u.id = s.customer_id
		 WHERE s.exit_time IS NULL AND s.owner_id = $1
		 ORDER BY s.entry_time DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select active sessions: %w", err)
	}
	defer rows.Close()
	return scanSessionRows(rows)
}

// ListExitLog returns exited sessions, most recent exit first.
func (r *SessionRepository) ListExitLog(ctx context.Context, limit int) ([]ports.ActiveSessionRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.plate, s.entry_time, s.exit_time, s.fee_cents, s.is_paid,
		        s.customer_id, s.owner_id, s.zone, COALESCE(u.full_name, '')
		 FROM sessions s
		 LEFT JOIN users u ON u.id = s.customer_id
		 WHERE s.exit_time IS NOT NULL
		 ORDER BY s.exit_time DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select exit log: %w", err)
	}
	defer rows.Close()
	return scanSessionRows(rows)
}

// FindOpenByCustomer returns the customer's currently open session.
func (r *SessionRepository) FindOpenByCustomer(ctx context.Context, customerID int64) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE customer_id = $1 AND exit_time IS NULL
		 ORDER BY entry_time DESC
		 LIMIT 1`,
		customerID,
	)
	return scanSession(row)
}

// ListExitedByCustomer returns the customer's closed sessions, most recent
// exit first, each with the method of the settling payment if any.
func (r *SessionRepository) ListExitedByCustomer(ctx context.Context, customerID int64) ([]ports.HistoryRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.plate, s.entry_time, s.exit_time, s.fee_cents, s.is_paid,
		        s.customer_id, s.owner_id, s.zone,
		        (SELECT p.method FROM payments p WHERE p.session_id = s.id ORDER BY p.paid_at LIMIT 1)
		 FROM sessions s
		 WHERE s.customer_id = $1 AND s.exit_time IS NOT NULL
		 ORDER BY s.exit_time DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select parking history: %w", err)
	}
	defer rows.Close()

	var out []ports.HistoryRow
	for rows.Next() {
		var (
			s      domain.Session
			zone   *string
			method *string
		)
		if err := rows.Scan(&s.ID, &s.Plate, &s.EntryTime, &s.ExitTime, &s.FeeCents,
			&s.IsPaid, &s.CustomerID, &s.OwnerID, &zone, &method); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if zone != nil {
			s.Zone = domain.Zone(*zone)
		}
		row := ports.HistoryRow{Session: s}
		if method != nil {
			m := domain.PaymentMethod(*method)
			row.PaymentMethod = &m
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// CustomerStats aggregates visits, spend and open-session state.
func (r *SessionRepository) CustomerStats(ctx context.Context, customerID int64) (*ports.CustomerStatsRow, error) {
	var stats ports.CustomerStatsRow
	err := r.pool.QueryRow(ctx,
		`SELECT
		    COUNT(*),
		    COALESCE(SUM(fee_cents) FILTER (WHERE is_paid), 0),
		    COUNT(*) FILTER (WHERE exit_time IS NULL) > 0,
		    COALESCE(SUM(fee_cents) FILTER (WHERE exit_time IS NOT NULL AND NOT is_paid), 0)
		 FROM sessions
		 WHERE customer_id = $1`,
		customerID,
	).Scan(&stats.TotalVisits, &stats.TotalSpentCents, &stats.CurrentlyParked, &stats.UnpaidCents)
	if err != nil {
		return nil, fmt.Errorf("customer stats: %w", err)
	}
	return &stats, nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		s    domain.Session
		zone *string
	)
	err := row.Scan(&s.ID, &s.Plate, &s.EntryTime, &s.ExitTime, &s.FeeCents,
		&s.IsPaid, &s.CustomerID, &s.OwnerID, &zone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if zone != nil {
		s.Zone = domain.Zone(*zone)
	}
	return &s, nil
}

func scanSessionRows(rows pgx.Rows) ([]ports.ActiveSessionRow, error) {
	var out []ports.ActiveSessionRow
	for rows.Next() {
		var (
			s    domain.Session
			zone *string
			name string
		)
		if err := rows.Scan(&s.ID, &s.Plate, &s.EntryTime, &s.ExitTime, &s.FeeCents,
			&s.IsPaid, &s.CustomerID, &s.OwnerID, &zone, &name); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if zone != nil {
			s.Zone = domain.Zone(*zone)
		}
		out = append(out, ports.ActiveSessionRow{Session: s, CustomerName: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}
