package ports

import (
	"context"

	"github.com/carparking/parking-system/internal/core/domain"
)

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Role        string // customer | owner
}

// AuthService defines registration, login and account maintenance.
type AuthService interface {
	// Register creates the account and returns it with a signed token.
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
}
