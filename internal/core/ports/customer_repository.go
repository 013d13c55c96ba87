package ports

import (
	"context"

	"github.com/carparking/parking-system/internal/core/domain"
)

// CustomerRepository defines persistence operations for customer accounts:
// credit balance and the registered-plates set.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// AddCredit increments the balance and returns the new value in cents.
	AddCredit(ctx context.Context, customerID, amountCents int64) (int64, error)
	// FindByPlate returns the customer who registered the plate, or
	// domain.ErrCustomerNotFound when the plate is unclaimed.
	FindByPlate(ctx context.Context, plate string) (*domain.User, error)
	ListPlates(ctx context.Context, customerID int64) ([]string, error)
	// RegisterPlate claims a plate for the customer. A plate held by
	// another customer yields domain.ErrPlateTaken; one already held by
	// this customer yields domain.ErrPlateRegistered.
	RegisterPlate(ctx context.Context, customerID int64, plate string) error
	// UnregisterPlate releases a plate; domain.ErrPlateNotFound when the
	// plate is not registered to this customer.
	UnregisterPlate(ctx context.Context, customerID int64, plate string) error
}
