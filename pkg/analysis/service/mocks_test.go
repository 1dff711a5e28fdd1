package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/generator"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/marketdata"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
	paymentservice "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment/service"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	CreateAnalysisFunc func(ctx context.Context, anl *analysis.Analysis) error
	GetAnalysisFunc    func(ctx context.Context, id string) (*analysis.Analysis, error)
	LinkPaymentFunc    func(ctx context.Context, id, paymentID string) error
	UpdateStatusFunc   func(ctx context.Context, id string, status analysis.Status) error
	SetResultFunc      func(ctx context.Context, id string, result *analysis.Result) error
	ListByUserFunc     func(ctx context.Context, userID string, offset, limit int) ([]*analysis.Analysis, int, error)
}

func (m *MockStore) CreateAnalysis(ctx context.Context, anl *analysis.Analysis) error {
	if m.CreateAnalysisFunc != nil {
		return m.CreateAnalysisFunc(ctx, anl)
	}
	return nil
}

func (m *MockStore) GetAnalysis(ctx context.Context, id string) (*analysis.Analysis, error) {
	if m.GetAnalysisFunc != nil {
		return m.GetAnalysisFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) LinkPayment(ctx context.Context, id, paymentID string) error {
	if m.LinkPaymentFunc != nil {
		return m.LinkPaymentFunc(ctx, id, paymentID)
	}
	return nil
}

func (m *MockStore) UpdateStatus(ctx context.Context, id string, status analysis.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockStore) SetResult(ctx context.Context, id string, result *analysis.Result) error {
	if m.SetResultFunc != nil {
		return m.SetResultFunc(ctx, id, result)
	}
	return nil
}

func (m *MockStore) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*analysis.Analysis, int, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, offset, limit)
	}
	return nil, 0, nil
}

// MockPayments is a mock implementation of Payments
type MockPayments struct {
	CreatePaymentFunc    func(ctx context.Context, userID, category string, amount decimal.Decimal) (*paymentservice.CheckoutResult, error)
	GetPaymentStatusFunc func(ctx context.Context, userID, id string) (*paymentservice.PaymentDetails, error)
}

func (m *MockPayments) CreatePayment(ctx context.Context, userID, category string, amount decimal.Decimal) (*paymentservice.CheckoutResult, error) {
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, userID, category, amount)
	}
	return &paymentservice.CheckoutResult{
		Payment:     payment.New("pay-1", userID, category, amount, "USD"),
		CheckoutURL: "https://pay.example/checkout",
	}, nil
}

func (m *MockPayments) GetPaymentStatus(ctx context.Context, userID, id string) (*paymentservice.PaymentDetails, error) {
	if m.GetPaymentStatusFunc != nil {
		return m.GetPaymentStatusFunc(ctx, userID, id)
	}
	return &paymentservice.PaymentDetails{
		Payment: &payment.Payment{ID: id, UserID: userID, Status: payment.StatusCompleted},
	}, nil
}

// MockMarketData is a mock implementation of MarketData
type MockMarketData struct {
	SnapshotFunc func(ctx context.Context, symbol string) (*marketdata.Snapshot, error)
}

func (m *MockMarketData) Snapshot(ctx context.Context, symbol string) (*marketdata.Snapshot, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, symbol)
	}
	return &marketdata.Snapshot{
		Quote:     &marketdata.Quote{Symbol: symbol, PriceUSD: decimal.NewFromInt(50000)},
		Global:    &marketdata.GlobalStats{},
		Sentiment: &marketdata.Sentiment{Score: 50, Classification: "Neutral"},
	}, nil
}

// MockGenerator is a mock implementation of generator.Generator
type MockGenerator struct {
	GenerateReportFunc func(ctx context.Context, req generator.Request) (*analysis.Result, error)
	SummarizeFunc      func(ctx context.Context, text string) (string, error)
}

func (m *MockGenerator) GenerateReport(ctx context.Context, req generator.Request) (*analysis.Result, error) {
	if m.GenerateReportFunc != nil {
		return m.GenerateReportFunc(ctx, req)
	}
	return &analysis.Result{FullAnalysis: "report", ExecutiveSummary: "summary"}, nil
}

func (m *MockGenerator) Summarize(ctx context.Context, text string) (string, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}
	return "summary", nil
}
