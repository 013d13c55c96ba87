package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carparking/parking-system/internal/core/domain"
)

// PaymentRepository settles sessions and records receipts. Both settlement
// paths run inside a single transaction so the paid flag, the receipt and
// (for credit) the balance debit commit together or not at all.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// SettleOnSpot flips the session to paid and inserts a receipt. The is_paid
// guard on the UPDATE makes a concurrent double payment lose with
// domain.ErrAlreadyPaid.
func (r *PaymentRepository) SettleOnSpot(ctx context.Context, sessionID, amountCents int64, method domain.PaymentMethod, paidAt time.Time) (*domain.Payment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE sessions SET is_paid = TRUE
		 WHERE id = $1 AND exit_time IS NOT NULL AND NOT is_paid`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("mark session paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAlreadyPaid
	}

	payment := &domain.Payment{
		SessionID:   sessionID,
		AmountCents: amountCents,
		PaidAt:      paidAt,
		Method:      method,
		Type:        domain.TypeOnSpot,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO payments (session_id, amount_cents, paid_at, method, type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sessionID, amountCents, paidAt, string(method), string(domain.TypeOnSpot),
	).Scan(&payment.ID)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return payment, nil
}

// SettleWithCredit debits the customer's balance and settles the session in
// one transaction. The customer row is locked FOR UPDATE so two concurrent
// debits serialize; the balance is re-read under the lock, the pre-check in
// the service layer is only advisory.
func (r *PaymentRepository) SettleWithCredit(ctx context.Context, customerID, sessionID, feeCents int64, paidAt time.Time) (*domain.Payment, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT credit_balance_cents FROM users WHERE id = $1 FOR UPDATE`,
		customerID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, domain.ErrCustomerNotFound
		}
		return nil, 0, fmt.Errorf("lock customer row: %w", err)
	}
	if balance < feeCents {
		return nil, 0, &domain.InsufficientBalanceError{
			RequiredCents:  feeCents,
			AvailableCents: balance,
		}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE sessions SET is_paid = TRUE
		 WHERE id = $1 AND exit_time IS NOT NULL AND NOT is_paid`,
		sessionID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("mark session paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, 0, domain.ErrAlreadyPaid
	}

	remaining := balance - feeCents
	if _, err := tx.Exec(ctx,
		`UPDATE users SET credit_balance_cents = $2 WHERE id = $1`,
		customerID, remaining,
	); err != nil {
		return nil, 0, fmt.Errorf("debit balance: %w", err)
	}

	payment := &domain.Payment{
		SessionID:   sessionID,
		AmountCents: feeCents,
		PaidAt:      paidAt,
		Method:      domain.MethodCredit,
		Type:        domain.TypeUserAccount,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO payments (session_id, amount_cents, paid_at, method, type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sessionID, feeCents, paidAt, string(domain.MethodCredit), string(domain.TypeUserAccount),
	).Scan(&payment.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit tx: %w", err)
	}
	return payment, remaining, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, session_id, amount_cents, paid_at, method, type
		 FROM payments WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.SessionID, &p.AmountCents, &p.PaidAt, &p.Method, &p.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &p, nil
}
