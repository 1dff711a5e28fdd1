package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/paygate"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	CreatePaymentFunc     func(ctx context.Context, pmt *payment.Payment) error
	GetPaymentFunc        func(ctx context.Context, id string) (*payment.Payment, error)
	SetGatewayRefFunc     func(ctx context.Context, id, gatewayRef string) error
	CompleteIfPendingFunc func(ctx context.Context, id, txHash string, completedAt time.Time) (bool, error)
	FailIfPendingFunc     func(ctx context.Context, id string, failedAt time.Time) (bool, error)
}

func (m *MockStore) CreatePayment(ctx context.Context, pmt *payment.Payment) error {
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, pmt)
	}
	return nil
}

func (m *MockStore) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) SetGatewayRef(ctx context.Context, id, gatewayRef string) error {
	if m.SetGatewayRefFunc != nil {
		return m.SetGatewayRefFunc(ctx, id, gatewayRef)
	}
	return nil
}

func (m *MockStore) CompleteIfPending(ctx context.Context, id, txHash string, completedAt time.Time) (bool, error) {
	if m.CompleteIfPendingFunc != nil {
		return m.CompleteIfPendingFunc(ctx, id, txHash, completedAt)
	}
	return true, nil
}

func (m *MockStore) FailIfPending(ctx context.Context, id string, failedAt time.Time) (bool, error) {
	if m.FailIfPendingFunc != nil {
		return m.FailIfPendingFunc(ctx, id, failedAt)
	}
	return true, nil
}

// MockAnalysisStore is a mock implementation of AnalysisStore
type MockAnalysisStore struct {
	GetAnalysisByPaymentIDFunc func(ctx context.Context, paymentID string) (*analysis.Analysis, error)
	UpdateStatusFunc           func(ctx context.Context, id string, status analysis.Status) error
}

func (m *MockAnalysisStore) GetAnalysisByPaymentID(ctx context.Context, paymentID string) (*analysis.Analysis, error) {
	if m.GetAnalysisByPaymentIDFunc != nil {
		return m.GetAnalysisByPaymentIDFunc(ctx, paymentID)
	}
	return &analysis.Analysis{ID: "analysis-1", PaymentID: paymentID}, nil
}

func (m *MockAnalysisStore) UpdateStatus(ctx context.Context, id string, status analysis.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

// MockGateway is a mock implementation of paygate.Gateway
type MockGateway struct {
	CreateIntentFunc func(ctx context.Context, req paygate.IntentRequest) (*paygate.Intent, error)
	ParseWebhookFunc func(payload []byte, signature string) (*paygate.Event, error)
}

func (m *MockGateway) CreateIntent(ctx context.Context, req paygate.IntentRequest) (*paygate.Intent, error) {
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, req)
	}
	return &paygate.Intent{GatewayRef: "gw-ref", CheckoutURL: "https://pay.example/checkout"}, nil
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*paygate.Event, error) {
	if m.ParseWebhookFunc != nil {
		return m.ParseWebhookFunc(payload, signature)
	}
	return nil, nil
}

// MockDistributor is a mock implementation of Distributor
type MockDistributor struct {
	DistributeFunc func(ctx context.Context, paymentID string, amount decimal.Decimal) error
}

func (m *MockDistributor) Distribute(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	if m.DistributeFunc != nil {
		return m.DistributeFunc(ctx, paymentID, amount)
	}
	return nil
}

// MockDistributions is a mock implementation of Distributions
type MockDistributions struct {
	ListByPaymentFunc func(ctx context.Context, paymentID string) ([]*revenue.Distribution, error)
}

func (m *MockDistributions) ListByPayment(ctx context.Context, paymentID string) ([]*revenue.Distribution, error) {
	if m.ListByPaymentFunc != nil {
		return m.ListByPaymentFunc(ctx, paymentID)
	}
	return nil, nil
}
