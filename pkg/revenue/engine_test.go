package revenue

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/custodian"
)

func testStakeholders() []*StakeholderEntry {
	return []*StakeholderEntry{
		{ID: 1, Wallet: "treasury-wallet", Share: decimal.NewFromInt(70), Category: "treasury", Active: true},
		{ID: 2, Wallet: "dev-wallet", Share: decimal.NewFromInt(20), Category: "development", Active: true},
		{ID: 3, Wallet: "marketing-wallet", Share: decimal.NewFromInt(10), Category: "marketing", Active: true},
	}
}

func TestDistributeSplitsByShare(t *testing.T) {
	var recorded []*Distribution
	completed := make(map[string]string)

	store := &MockStore{
		ActiveStakeholdersFunc: func(_ context.Context) ([]*StakeholderEntry, error) {
			return testStakeholders(), nil
		},
		CreateDistributionsFunc: func(_ context.Context, dists []*Distribution) error {
			recorded = dists
			return nil
		},
		MarkDistributionCompletedFunc: func(_ context.Context, id, ref string) error {
			completed[id] = ref
			return nil
		},
	}

	var transfers []custodian.TransferRequest
	transferer := &MockTransferer{
		TransferFunc: func(_ context.Context, req custodian.TransferRequest) (*custodian.TransferResult, error) {
			transfers = append(transfers, req)
			return &custodian.TransferResult{Ref: "tr-" + req.ToWalletID}, nil
		},
	}

	engine := NewEngine(store, transferer, "platform-wallet", "USDT", zap.NewNop())

	err := engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(100))
	require.NoError(t, err)

	require.Len(t, recorded, 3)
	assert.True(t, recorded[0].Amount.Equal(decimal.NewFromInt(70)))
	assert.True(t, recorded[1].Amount.Equal(decimal.NewFromInt(20)))
	assert.True(t, recorded[2].Amount.Equal(decimal.NewFromInt(10)))
	for _, dist := range recorded {
		assert.Equal(t, "pay-1", dist.PaymentID)
		assert.Equal(t, DistributionPending, dist.Status)
	}

	require.Len(t, transfers, 3)
	assert.Equal(t, "platform-wallet", transfers[0].FromWalletID)
	assert.Equal(t, "USDT", transfers[0].Asset)
	assert.Len(t, completed, 3)
}

func TestDistributeIdempotentPerPayment(t *testing.T) {
	created := 0
	store := &MockStore{
		HasDistributionsFunc: func(_ context.Context, _ string) (bool, error) {
			return true, nil
		},
		CreateDistributionsFunc: func(_ context.Context, _ []*Distribution) error {
			created++
			return nil
		},
	}
	transferCalls := 0
	transferer := &MockTransferer{
		TransferFunc: func(_ context.Context, _ custodian.TransferRequest) (*custodian.TransferResult, error) {
			transferCalls++
			return &custodian.TransferResult{Ref: "x"}, nil
		},
	}

	engine := NewEngine(store, transferer, "platform-wallet", "USDT", zap.NewNop())

	err := engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, transferCalls)
}

func TestDistributeRecordsBeforeTransfer(t *testing.T) {
	recordedFirst := false
	store := &MockStore{
		ActiveStakeholdersFunc: func(_ context.Context) ([]*StakeholderEntry, error) {
			return testStakeholders(), nil
		},
		CreateDistributionsFunc: func(_ context.Context, _ []*Distribution) error {
			recordedFirst = true
			return nil
		},
	}
	transferer := &MockTransferer{
		TransferFunc: func(_ context.Context, _ custodian.TransferRequest) (*custodian.TransferResult, error) {
			require.True(t, recordedFirst, "transfer attempted before distributions were recorded")
			return &custodian.TransferResult{Ref: "x"}, nil
		},
	}

	engine := NewEngine(store, transferer, "platform-wallet", "USDT", zap.NewNop())

	require.NoError(t, engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(100)))
}

func TestDistributeRecordFailureAbortsTransfers(t *testing.T) {
	store := &MockStore{
		ActiveStakeholdersFunc: func(_ context.Context) ([]*StakeholderEntry, error) {
			return testStakeholders(), nil
		},
		CreateDistributionsFunc: func(_ context.Context, _ []*Distribution) error {
			return errors.New("insert failed")
		},
	}
	transferCalls := 0
	transferer := &MockTransferer{
		TransferFunc: func(_ context.Context, _ custodian.TransferRequest) (*custodian.TransferResult, error) {
			transferCalls++
			return &custodian.TransferResult{Ref: "x"}, nil
		},
	}

	engine := NewEngine(store, transferer, "platform-wallet", "USDT", zap.NewNop())

	err := engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.Zero(t, transferCalls)
}

func TestDistributeRecipientFailureIsolated(t *testing.T) {
	var failed, completed []string
	store := &MockStore{
		ActiveStakeholdersFunc: func(_ context.Context) ([]*StakeholderEntry, error) {
			return testStakeholders(), nil
		},
		MarkDistributionCompletedFunc: func(_ context.Context, id, _ string) error {
			completed = append(completed, id)
			return nil
		},
		MarkDistributionFailedFunc: func(_ context.Context, id string) error {
			failed = append(failed, id)
			return nil
		},
	}
	transferer := &MockTransferer{
		TransferFunc: func(_ context.Context, req custodian.TransferRequest) (*custodian.TransferResult, error) {
			if req.ToWalletID == "dev-wallet" {
				return nil, errors.New("destination wallet frozen")
			}
			return &custodian.TransferResult{Ref: "tr-1"}, nil
		},
	}

	engine := NewEngine(store, transferer, "platform-wallet", "USDT", zap.NewNop())

	err := engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Len(t, completed, 2)
	assert.Len(t, failed, 1)
}

func TestDistributeNoStakeholders(t *testing.T) {
	created := 0
	store := &MockStore{
		ActiveStakeholdersFunc: func(_ context.Context) ([]*StakeholderEntry, error) {
			return nil, nil
		},
		CreateDistributionsFunc: func(_ context.Context, _ []*Distribution) error {
			created++
			return nil
		},
	}

	engine := NewEngine(store, &MockTransferer{}, "platform-wallet", "USDT", zap.NewNop())

	require.NoError(t, engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(100)))
	assert.Zero(t, created)
}

func TestDistributeFractionalShares(t *testing.T) {
	var recorded []*Distribution
	store := &MockStore{
		ActiveStakeholdersFunc: func(_ context.Context) ([]*StakeholderEntry, error) {
			return []*StakeholderEntry{
				{Wallet: "a", Share: decimal.RequireFromString("33.33"), Category: "treasury", Active: true},
				{Wallet: "b", Share: decimal.RequireFromString("66.67"), Category: "development", Active: true},
			}, nil
		},
		CreateDistributionsFunc: func(_ context.Context, dists []*Distribution) error {
			recorded = dists
			return nil
		},
	}

	engine := NewEngine(store, &MockTransferer{}, "platform-wallet", "USDT", zap.NewNop())

	require.NoError(t, engine.Distribute(context.Background(), "pay-1", decimal.NewFromInt(30)))
	require.Len(t, recorded, 2)
	assert.True(t, recorded[0].Amount.Equal(decimal.RequireFromString("9.999")))
	assert.True(t, recorded[1].Amount.Equal(decimal.RequireFromString("20.001")))
}
