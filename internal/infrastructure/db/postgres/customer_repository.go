package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carparking/parking-system/internal/core/domain"
)

const userColumns = `id, email, password_hash, full_name, phone_number, role, credit_balance_cents, is_active, created_at`

// CustomerRepository persists customer accounts: credit balance and the
// registered-plates set.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND role = $2`,
		id, domain.RoleCustomer,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return u, nil
}

// AddCredit increments the balance atomically and returns the new value.
func (r *CustomerRepository) AddCredit(ctx context.Context, customerID, amountCents int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET credit_balance_cents = credit_balance_cents + $2
		 WHERE id = $1 AND role = $3
		 RETURNING credit_balance_cents`,
		customerID, amountCents, domain.RoleCustomer,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCustomerNotFound
		}
		return 0, fmt.Errorf("add credit: %w", err)
	}
	return balance, nil
}

// FindByPlate resolves a registered plate to its owner account.
func (r *CustomerRepository) FindByPlate(ctx context.Context, plate string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT u.id, u.email, u.password_hash, u.full_name, u.phone_number, u.role,
		        u.credit_balance_cents, u.is_active, u.created_at
		 FROM users u
		 JOIN registered_plates rp ON rp.user_id = u.id
		 WHERE rp.plate = $1`,
		plate,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *CustomerRepository) ListPlates(ctx context.Context, customerID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT plate FROM registered_plates WHERE user_id = $1 ORDER BY created_at`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select plates: %w", err)
	}
	defer rows.Close()

	var plates []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan plate: %w", err)
		}
		plates = append(plates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return plates, nil
}

// RegisterPlate claims a plate for the customer. Plates are globally unique;
// the primary-key violation is split into taken-by-other vs already-yours.
func (r *CustomerRepository) RegisterPlate(ctx context.Context, customerID int64, plate string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO registered_plates (plate, user_id) VALUES ($1, $2)`,
		plate, customerID,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		var holderID int64
		lookupErr := r.pool.QueryRow(ctx,
			`SELECT user_id FROM registered_plates WHERE plate = $1`, plate,
		).Scan(&holderID)
		if lookupErr == nil && holderID == customerID {
			return domain.ErrPlateRegistered
		}
		return domain.ErrPlateTaken
	}
	return fmt.Errorf("register plate: %w", err)
}

func (r *CustomerRepository) UnregisterPlate(ctx context.Context, customerID int64, plate string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM registered_plates WHERE plate = $1 AND user_id = $2`,
		plate, customerID,
	)
	if err != nil {
		return fmt.Errorf("unregister plate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlateNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.PhoneNumber,
		&u.Role, &u.CreditBalanceCents, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
