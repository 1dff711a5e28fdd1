package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the user store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *pgStore) GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dao := new(UserDao)
	query := s.db.NewSelect().Model(dao)

	if options.ID != nil {
		query = query.Where("id = ?", *options.ID)
	}
	if options.Email != nil {
		query = query.Where("email = ?", *options.Email)
	}

	err := query.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUser(dao), nil
}

func (s *pgStore) UserExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user exists: %w", err)
	}
	return exists, nil
}

// BindWallet sets the wallet on a user only if no wallet is bound yet.
// The WHERE clause makes the set-once rule hold under concurrent binds:
// whichever update lands first wins, the rest see zero rows.
func (s *pgStore) BindWallet(ctx context.Context, userID, walletID string) error {
	res, err := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("wallet_id = ?", walletID).
		Where("id = ?", userID).
		Where("wallet_id IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to bind wallet: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read bind result: %w", err)
	}
	if rows == 0 {
		exists, err := s.db.NewSelect().
			Model((*UserDao)(nil)).
			Where("id = ?", userID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check user exists: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}
		return ErrWalletAlreadyBound
	}

	return nil
}
