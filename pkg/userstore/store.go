package userstore

import (
	"context"
	"errors"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user"
)

// ErrUserNotFound is returned when a user lookup finds no matching record.
var ErrUserNotFound = errors.New("user not found")

// ErrWalletAlreadyBound is returned when a wallet bind targets a user that
// already has a wallet. The existing binding is never replaced.
var ErrWalletAlreadyBound = errors.New("wallet already bound")

// Store defines the interface for user data persistence
type Store interface {
	CreateUser(ctx context.Context, user *user.User) error
	GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error)
	UserExists(ctx context.Context, email string) (bool, error)
	BindWallet(ctx context.Context, userID, walletID string) error
}

// QueryOptions defines options for querying users
type QueryOptions struct {
	ID    *string
	Email *string
}

// QueryOption is a functional option for querying users
type QueryOption func(*QueryOptions)

// WithID sets the user ID filter
func WithID(id string) QueryOption {
	return func(opts *QueryOptions) {
		opts.ID = &id
	}
}

// WithEmail sets the email filter
func WithEmail(email string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Email = &email
	}
}
