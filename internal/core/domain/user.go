package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

// User models an authenticated actor: a customer with a pre-funded credit
// balance and registered plates, or a lot owner/operator.
type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	FullName           string    `json:"full_name"`
	PhoneNumber        string    `json:"phone_number"`
	Role               string    `json:"role"`
	CreditBalanceCents int64     `json:"-"`
	IsActive           bool      `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}
