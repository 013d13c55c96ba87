package ports

import (
	"context"
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
)

// OnSpotPaymentInput carries a cashier-collected payment for a plate.
type OnSpotPaymentInput struct {
	Plate       string // raw, normalized by the service
	AmountCents int64
	Method      string // raw, validated against the cash|card enum
}

// PaymentReceipt is returned after a successful on-spot settlement.
type PaymentReceipt struct {
	PaymentID   int64
	SessionID   int64
	AmountCents int64
	Method      domain.PaymentMethod
	PaidAt      time.Time
}

// CreditPaymentReceipt additionally carries the remaining account balance.
type CreditPaymentReceipt struct {
	PaymentReceipt
	RemainingBalanceCents int64
}

// PaymentService defines the two mutually exclusive settlement paths.
type PaymentService interface {
	ProcessOnSpot(ctx context.Context, input OnSpotPaymentInput) (*PaymentReceipt, error)
	// PayWithCredit settles the session's fee by debiting the customer's
	// pre-funded balance. The session must belong to the customer.
	PayWithCredit(ctx context.Context, customerID, sessionID int64) (*CreditPaymentReceipt, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
}
