package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services and repositories. The API layer maps
// them to HTTP status codes in a single place (internal/api/error_handler.go).
var (
	ErrRateNotFound    = errors.New("no active parking rate found")
	ErrInvalidRate     = errors.New("hourly rate must be greater than zero")
	ErrSessionNotFound = errors.New("vehicle not found or already exited")
	ErrInvalidZone     = errors.New("invalid zone")
	ErrNotExited       = errors.New("vehicle has not exited yet")
	ErrNoFee           = errors.New("no parking fee to pay")
	ErrFeeAlreadySet   = errors.New("parking fee already computed")
	ErrAlreadyPaid     = errors.New("payment already processed for this vehicle")
	ErrInvalidMethod   = errors.New("payment method must be 'cash' or 'card'")
	ErrPaymentNotFound = errors.New("payment not found")

	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidAmount    = errors.New("amount must be between 1 and 10000")
	ErrPlateTaken       = errors.New("this plate is already registered by another customer")
	ErrPlateRegistered  = errors.New("plate already registered")
	ErrPlateNotFound    = errors.New("plate not found in registered vehicles")
	ErrEmptyPlate       = errors.New("plate is required")

	ErrUserExists         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrForbidden          = errors.New("access forbidden")
)

// AmountMismatchError is returned when an on-spot payment does not exactly
// match the stored parking fee. No partial payments, no overpayment tolerance.
type AmountMismatchError struct {
	ExpectedCents int64
	ProvidedCents int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment amount does not match parking fee: expected %s, provided %s",
		FormatCents(e.ExpectedCents), FormatCents(e.ProvidedCents))
}

// InsufficientBalanceError is returned when a credit settlement would drive
// the customer balance below zero. Shortfall = Required - Available.
type InsufficientBalanceError struct {
	RequiredCents  int64
	AvailableCents int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient credit balance: short by %s", FormatCents(e.ShortfallCents()))
}

func (e *InsufficientBalanceError) ShortfallCents() int64 {
	return e.RequiredCents - e.AvailableCents
}
