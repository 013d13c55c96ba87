package ports

import (
	"context"
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
)

// PaymentRepository defines the transactional settlement operations. Both
// settle methods re-verify their guards inside the transaction so that the
// paid flip, the receipt insert and (for credit) the balance debit are a
// single atomic unit.
type PaymentRepository interface {
	// SettleOnSpot flips is_paid and inserts the receipt. The flip is
	// guarded by is_paid = false; a lost race returns domain.ErrAlreadyPaid.
	SettleOnSpot(ctx context.Context, sessionID int64, amountCents int64, method domain.PaymentMethod, paidAt time.Time) (*domain.Payment, error)
	// SettleWithCredit locks the customer row, debits feeCents from the
	// balance, flips is_paid and inserts the receipt, returning the receipt
	// and the remaining balance. Fails with domain errors (insufficient
	// balance, already paid) without any partial effect.
	SettleWithCredit(ctx context.Context, customerID, sessionID, feeCents int64, paidAt time.Time) (*domain.Payment, int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Payment, error)
}
