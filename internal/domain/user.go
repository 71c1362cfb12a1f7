package domain

import "time"

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleHost  Role = "HOST"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID                     int32     `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	PasswordHash           string    `json:"-"`
	Role                   Role      `json:"role"`
	StripeCustomerID       string    `json:"stripe_customer_id,omitempty"`
	DefaultPaymentMethodID string    `json:"default_payment_method_id,omitempty"`
	IsBlocked              bool      `json:"is_blocked"`
	BlockReason            string    `json:"block_reason,omitempty"`
	CreatedOn              time.Time `json:"created_on"`
	UpdatedOn              time.Time `json:"updated_on"`
}

// HasSavedPaymentMethod reports whether the user can be charged off-session.
func (u *User) HasSavedPaymentMethod() bool {
	return u.StripeCustomerID != "" && u.DefaultPaymentMethodID != ""
}
