package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/api/metrics"
	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// PaymentService reconciles parking fees through exactly one of two paths:
// a cashier-collected on-spot payment, or a debit of the customer's
// pre-funded credit balance. A session is marked paid exactly once.
type PaymentService struct {
	payments  ports.PaymentRepository
	sessions  ports.SessionRepository
	customers ports.CustomerRepository
	logger    zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	sessions ports.SessionRepository,
	customers ports.CustomerRepository,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		sessions:  sessions,
		customers: customers,
		logger:    logger,
	}
}

// ProcessOnSpot settles the most recently exited unpaid session for the
// plate. The amount must exactly equal the stored fee: no partial payments,
// no overpayment tolerance.
func (s *PaymentService) ProcessOnSpot(ctx context.Context, input ports.OnSpotPaymentInput) (*ports.PaymentReceipt, error) {
	method, err := domain.ParseOnSpotMethod(input.Method)
	if err != nil {
		return nil, err
	}

	plate := domain.NormalizePlate(input.Plate)
	session, err := s.sessions.FindLatestExited(ctx, plate)
	if err != nil {
		return nil, err
	}
	if session.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if session.FeeCents == nil {
		return nil, domain.ErrNoFee
	}
	if input.AmountCents != *session.FeeCents {
		return nil, &domain.AmountMismatchError{
			ExpectedCents: *session.FeeCents,
			ProvidedCents: input.AmountCents,
		}
	}

	payment, err := s.payments.SettleOnSpot(ctx, session.ID, input.AmountCents, method, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues(string(domain.TypeOnSpot), string(method)).Inc()
	metrics.RevenueCentsTotal.Add(float64(payment.AmountCents))
	s.logger.Info().
		Str("plate", plate).
		Int64("session_id", session.ID).
		Int64("amount_cents", payment.AmountCents).
		Str("method", string(method)).
		Msg("on-spot payment processed")

	return &ports.PaymentReceipt{
		PaymentID:   payment.ID,
		SessionID:   payment.SessionID,
		AmountCents: payment.AmountCents,
		Method:      payment.Method,
		PaidAt:      payment.PaidAt,
	}, nil
}

// PayWithCredit settles the session's fee by debiting the customer's credit
// balance. Pre-checks give precise errors; the repository re-verifies every
// guard inside the transaction, so the debit, the paid flip and the receipt
// are a single atomic unit.
func (s *PaymentService) PayWithCredit(ctx context.Context, customerID, sessionID int64) (*ports.CreditPaymentReceipt, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Ownership check: a session that belongs to someone else is reported
	// as not found, not as forbidden, to avoid leaking its existence.
	if session.CustomerID == nil || *session.CustomerID != customerID {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsOpen() {
		return nil, domain.ErrNotExited
	}
	if session.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if session.FeeCents == nil || *session.FeeCents <= 0 {
		return nil, domain.ErrNoFee
	}
	fee := *session.FeeCents

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CreditBalanceCents < fee {
		return nil, &domain.InsufficientBalanceError{
			RequiredCents:  fee,
			AvailableCents: customer.CreditBalanceCents,
		}
	}

	payment, remaining, err := s.payments.SettleWithCredit(ctx, customerID, sessionID, fee, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues(string(domain.TypeUserAccount), string(domain.MethodCredit)).Inc()
	metrics.RevenueCentsTotal.Add(float64(payment.AmountCents))
	s.logger.Info().
		Int64("customer_id", customerID).
		Int64("session_id", sessionID).
		Int64("amount_cents", payment.AmountCents).
		Int64("remaining_cents", remaining).
		Msg("credit payment processed")

	return &ports.CreditPaymentReceipt{
		PaymentReceipt: ports.PaymentReceipt{
			PaymentID:   payment.ID,
			SessionID:   payment.SessionID,
			AmountCents: payment.AmountCents,
			Method:      payment.Method,
			PaidAt:      payment.PaidAt,
		},
		RemainingBalanceCents: remaining,
	}, nil
}

// GetPayment returns a settled receipt by id.
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.FindByID(ctx, id)
}
