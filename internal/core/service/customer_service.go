package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// Credit top-ups are bounded per transaction; the cumulative balance is not.
const (
	minTopUpCents = 1_00
	maxTopUpCents = 10_000_00
)

// CustomerService implements customer self-service: credit top-up, plate
// registration, and views over the customer's own sessions.
type CustomerService struct {
	customers ports.CustomerRepository
	sessions  ports.SessionRepository
	rates     ports.RateService
	logger    zerolog.Logger
}

func NewCustomerService(
	customers ports.CustomerRepository,
	sessions ports.SessionRepository,
	rates ports.RateService,
	logger zerolog.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		sessions:  sessions,
		rates:     rates,
		logger:    logger,
	}
}

// AddCredit simulates an external funding source: the bank account and card
// numbers are captured but never charged. Amount is bounded per top-up.
func (s *CustomerService) AddCredit(ctx context.Context, input ports.AddCreditInput) (int64, error) {
	if input.AmountCents < minTopUpCents || input.AmountCents > maxTopUpCents {
		return 0, domain.ErrInvalidAmount
	}

	balance, err := s.customers.AddCredit(ctx, input.CustomerID, input.AmountCents)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("customer_id", input.CustomerID).
		Int64("amount_cents", input.AmountCents).
		Int64("balance_cents", balance).
		Msg("credit added")
	return balance, nil
}

// Balance returns the customer's current credit balance in cents.
func (s *CustomerService) Balance(ctx context.Context, customerID int64) (int64, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return customer.CreditBalanceCents, nil
}

// RegisterPlate claims a plate for the customer and returns the updated set.
func (s *CustomerService) RegisterPlate(ctx context.Context, customerID int64, rawPlate string) ([]string, error) {
	plate := domain.NormalizePlate(rawPlate)
	if plate == "" {
		return nil, domain.ErrEmptyPlate
	}

	if err := s.customers.RegisterPlate(ctx, customerID, plate); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", customerID).Str("plate", plate).Msg("plate registered")
	return s.ListPlates(ctx, customerID)
}

// UnregisterPlate releases a plate and returns the updated set.
func (s *CustomerService) UnregisterPlate(ctx context.Context, customerID int64, rawPlate string) ([]string, error) {
	plate := domain.NormalizePlate(rawPlate)
	if plate == "" {
		return nil, domain.ErrEmptyPlate
	}

	if err := s.customers.UnregisterPlate(ctx, customerID, plate); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", customerID).Str("plate", plate).Msg("plate unregistered")
	return s.ListPlates(ctx, customerID)
}

// ListPlates returns the customer's registered plates, upper-cased for
// display.
func (s *CustomerService) ListPlates(ctx context.Context, customerID int64) ([]string, error) {
	plates, err := s.customers.ListPlates(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(plates))
	for _, p := range plates {
		out = append(out, domain.DisplayPlate(p))
	}
	return out, nil
}

// CurrentParking reports the customer's open session, with the estimated
// fee at the current rate (zero when no rate is configured).
func (s *CustomerService) CurrentParking(ctx context.Context, customerID int64) (*ports.CurrentParking, error) {
	session, err := s.sessions.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return &ports.CurrentParking{IsParked: false}, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	var estimated int64
	if rate, err := s.rates.CurrentRate(ctx); err == nil {
		estimated = domain.ParkingFee(session.EntryTime, now, rate.HourlyRateCents)
	} else if !errors.Is(err, domain.ErrRateNotFound) {
		return nil, err
	}

	return &ports.CurrentParking{
		IsParked:          true,
		SessionID:         session.ID,
		Plate:             session.Plate,
		EntryTime:         session.EntryTime,
		Zone:              session.Zone,
		Duration:          now.Sub(session.EntryTime),
		EstimatedFeeCents: estimated,
	}, nil
}

// ParkingHistory returns the customer's closed sessions, most recent first.
func (s *CustomerService) ParkingHistory(ctx context.Context, customerID int64) ([]ports.HistoryEntry, error) {
	rows, err := s.sessions.ListExitedByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]ports.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := ports.HistoryEntry{
			SessionID:     row.Session.ID,
			Plate:         row.Session.Plate,
			EntryTime:     row.Session.EntryTime,
			FeeCents:      row.Session.FeeCents,
			IsPaid:        row.Session.IsPaid,
			Zone:          row.Session.Zone,
			PaymentMethod: row.PaymentMethod,
		}
		if row.Session.ExitTime != nil {
			entry.ExitTime = *row.Session.ExitTime
			entry.Duration = row.Session.ExitTime.Sub(row.Session.EntryTime)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Stats aggregates the customer's account activity.
func (s *CustomerService) Stats(ctx context.Context, customerID int64) (*ports.CustomerStats, error) {
	row, err := s.sessions.CustomerStats(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &ports.CustomerStats{
		TotalVisits:     row.TotalVisits,
		TotalSpentCents: row.TotalSpentCents,
		CurrentlyParked: row.CurrentlyParked,
		UnpaidCents:     row.UnpaidCents,
	}, nil
}
