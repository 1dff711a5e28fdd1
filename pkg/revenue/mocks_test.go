package revenue

import (
	"context"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/custodian"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	ActiveStakeholdersFunc        func(ctx context.Context) ([]*StakeholderEntry, error)
	HasDistributionsFunc          func(ctx context.Context, paymentID string) (bool, error)
	CreateDistributionsFunc       func(ctx context.Context, dists []*Distribution) error
	MarkDistributionCompletedFunc func(ctx context.Context, id, transferRef string) error
	MarkDistributionFailedFunc    func(ctx context.Context, id string) error
}

func (m *MockStore) ActiveStakeholders(ctx context.Context) ([]*StakeholderEntry, error) {
	if m.ActiveStakeholdersFunc != nil {
		return m.ActiveStakeholdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) HasDistributions(ctx context.Context, paymentID string) (bool, error) {
	if m.HasDistributionsFunc != nil {
		return m.HasDistributionsFunc(ctx, paymentID)
	}
	return false, nil
}

func (m *MockStore) CreateDistributions(ctx context.Context, dists []*Distribution) error {
	if m.CreateDistributionsFunc != nil {
		return m.CreateDistributionsFunc(ctx, dists)
	}
	return nil
}

func (m *MockStore) MarkDistributionCompleted(ctx context.Context, id, transferRef string) error {
	if m.MarkDistributionCompletedFunc != nil {
		return m.MarkDistributionCompletedFunc(ctx, id, transferRef)
	}
	return nil
}

func (m *MockStore) MarkDistributionFailed(ctx context.Context, id string) error {
	if m.MarkDistributionFailedFunc != nil {
		return m.MarkDistributionFailedFunc(ctx, id)
	}
	return nil
}

// MockTransferer is a mock implementation of Transferer
type MockTransferer struct {
	TransferFunc func(ctx context.Context, req custodian.TransferRequest) (*custodian.TransferResult, error)
}

func (m *MockTransferer) Transfer(ctx context.Context, req custodian.TransferRequest) (*custodian.TransferResult, error) {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, req)
	}
	return &custodian.TransferResult{Ref: "mock-ref"}, nil
}
