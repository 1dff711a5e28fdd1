package service

import (
	"context"
	"time"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/custodian"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/userstore"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	CreateUserFunc func(ctx context.Context, usr *user.User) error
	GetUserFunc    func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UserExistsFunc func(ctx context.Context, email string) (bool, error)
	BindWalletFunc func(ctx context.Context, userID, walletID string) error
}

func (m *MockStore) CreateUser(ctx context.Context, usr *user.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, usr)
	}
	return nil
}

func (m *MockStore) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, nil
}

func (m *MockStore) UserExists(ctx context.Context, email string) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *MockStore) BindWallet(ctx context.Context, userID, walletID string) error {
	if m.BindWalletFunc != nil {
		return m.BindWalletFunc(ctx, userID, walletID)
	}
	return nil
}

// MockWalletProvider is a mock implementation of WalletProvider
type MockWalletProvider struct {
	CreateWalletFunc func(ctx context.Context, label string) (*custodian.Wallet, error)
}

func (m *MockWalletProvider) CreateWallet(ctx context.Context, label string) (*custodian.Wallet, error) {
	if m.CreateWalletFunc != nil {
		return m.CreateWalletFunc(ctx, label)
	}
	return &custodian.Wallet{ID: "wallet-1", Address: "0xabc"}, nil
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	IssueTokenFunc func(userID string, ttl time.Duration) (string, error)
}

func (m *MockTokenIssuer) IssueToken(userID string, ttl time.Duration) (string, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(userID, ttl)
	}
	return "token", nil
}
