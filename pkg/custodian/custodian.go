// Package custodian adapts the custodial wallet provider used for platform
// funds and stakeholder payouts.
package custodian

import (
	"context"

	"github.com/shopspring/decimal"
)

// Wallet is a custodial wallet owned by the platform on a user's behalf.
type Wallet struct {
	ID      string
	Address string
}

// Balance is one asset balance inside a wallet.
type Balance struct {
	Asset  string
	Amount decimal.Decimal
}

// TransferRequest moves funds from the platform wallet to a destination.
type TransferRequest struct {
	FromWalletID string
	ToWalletID   string
	Asset        string
	Amount       decimal.Decimal
	// IdempotencyKey dedupes retried transfers on the provider side.
	IdempotencyKey string
}

// TransferResult carries the provider's reference for a submitted transfer.
type TransferResult struct {
	Ref    string
	Status string
}

// Custodian is the wallet provider adapter.
type Custodian interface {
	CreateWallet(ctx context.Context, label string) (*Wallet, error)
	GetBalances(ctx context.Context, walletID string) ([]Balance, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}
