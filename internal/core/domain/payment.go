package domain

import (
	"strings"
	"time"
)

// PaymentMethod is the closed set of accepted payment instruments. The
// free-text method field of older systems is normalized to this enum.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodCredit PaymentMethod = "credit"
)

// ParseOnSpotMethod validates a cashier-provided method, case-insensitively.
// The credit method is reserved for the account-settlement path.
func ParseOnSpotMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case MethodCash:
		return MethodCash, nil
	case MethodCard:
		return MethodCard, nil
	default:
		return "", ErrInvalidMethod
	}
}

// PaymentType distinguishes the two settlement paths.
type PaymentType string

const (
	TypeOnSpot      PaymentType = "on_spot"
	TypeUserAccount PaymentType = "user_account"
)

// Payment is the immutable receipt created exactly once per successful
// settlement. Failed attempts are never persisted.
type Payment struct {
	ID          int64
	SessionID   int64
	AmountCents int64
	PaidAt      time.Time
	Method      PaymentMethod
	Type        PaymentType
}
