package domain

import "time"

type UserRole string

const (
	RoleClient      UserRole = "client"
	RolePhotographe UserRole = "photographe"
	RoleAdmin       UserRole = "admin"
)

type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email" validate:"required,email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone,omitempty"`

	// Connected account at the payment processor, destination of deposit
	// and balance transfers. Only set for photographers.
	PaymentAccountID string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
