package ports

import (
	"context"
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
)

// AddCreditInput simulates an external funding source: the account and card
// identifiers are captured but no real transfer occurs.
type AddCreditInput struct {
	CustomerID        int64
	AmountCents       int64
	BankAccountNumber string
	CardNumber        string
}

// CurrentParking describes the customer's open session, if any.
type CurrentParking struct {
	IsParked          bool
	SessionID         int64
	Plate             string
	EntryTime         time.Time
	Zone              domain.Zone
	Duration          time.Duration
	EstimatedFeeCents int64 // zero when no rate is configured
}

// HistoryEntry is one closed session in the customer's history.
type HistoryEntry struct {
	SessionID     int64
	Plate         string
	EntryTime     time.Time
	ExitTime      time.Time
	Duration      time.Duration
	FeeCents      *int64
	IsPaid        bool
	Zone          domain.Zone
	PaymentMethod *domain.PaymentMethod
}

// CustomerStats summarizes the customer's account activity.
type CustomerStats struct {
	TotalVisits     int64
	TotalSpentCents int64
	CurrentlyParked bool
	UnpaidCents     int64
}

// CustomerService defines the customer self-service operations.
type CustomerService interface {
	AddCredit(ctx context.Context, input AddCreditInput) (int64, error)
	Balance(ctx context.Context, customerID int64) (int64, error)
	RegisterPlate(ctx context.Context, customerID int64, plate string) ([]string, error)
	UnregisterPlate(ctx context.Context, customerID int64, plate string) ([]string, error)
	ListPlates(ctx context.Context, customerID int64) ([]string, error)
	CurrentParking(ctx context.Context, customerID int64) (*CurrentParking, error)
	ParkingHistory(ctx context.Context, customerID int64) ([]HistoryEntry, error)
	Stats(ctx context.Context, customerID int64) (*CustomerStats, error)
}
