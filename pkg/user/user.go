// Package user holds the domain model for registered users.
package user

import "time"

// User represents a registered account. WalletID is the custodial wallet
// bound to the user; it is set at most once and never rebound.
type User struct {
	ID        string
	Email     string
	WalletID  string
	CreatedAt time.Time
}

// New creates a User without a bound wallet.
func New(id, email string) *User {
	return &User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now(),
	}
}
