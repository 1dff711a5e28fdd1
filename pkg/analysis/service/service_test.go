package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysisstore"
	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/generator"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/marketdata"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
	paymentservice "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment/service"
)

func newTestService(store *MockStore, payments *MockPayments, market *MockMarketData, gen *MockGenerator) Service {
	if store == nil {
		store = &MockStore{}
	}
	if payments == nil {
		payments = &MockPayments{}
	}
	if market == nil {
		market = &MockMarketData{}
	}
	if gen == nil {
		gen = &MockGenerator{}
	}
	return NewService(store, payments, market, gen, zap.NewNop())
}

func paidAnalysis(id, userID string) *analysis.Analysis {
	return &analysis.Analysis{
		ID:        id,
		UserID:    userID,
		Category:  analysis.CategoryTechnicalAnalysis,
		Params:    analysis.Params{Symbol: "BTC"},
		Price:     decimal.NewFromInt(25),
		Status:    analysis.StatusPaid,
		PaymentID: "pay-1",
	}
}

func TestCreateAnalysisRequest(t *testing.T) {
	var created *analysis.Analysis
	var linkedPayment string
	store := &MockStore{
		CreateAnalysisFunc: func(_ context.Context, anl *analysis.Analysis) error {
			created = anl
			return nil
		},
		LinkPaymentFunc: func(_ context.Context, _, paymentID string) error {
			linkedPayment = paymentID
			return nil
		},
	}
	payments := &MockPayments{
		CreatePaymentFunc: func(_ context.Context, userID, category string, amount decimal.Decimal) (*paymentservice.CheckoutResult, error) {
			assert.Equal(t, "TECHNICAL_ANALYSIS", category)
			assert.True(t, amount.Equal(decimal.NewFromInt(25)))
			return &paymentservice.CheckoutResult{
				Payment:     payment.New("pay-9", userID, category, amount, "USD"),
				CheckoutURL: "https://pay/9",
			}, nil
		},
	}

	svc := newTestService(store, payments, nil, nil)

	result, err := svc.CreateAnalysisRequest(context.Background(), "user-1",
		analysis.CategoryTechnicalAnalysis, analysis.Params{Symbol: "btc"})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, analysis.StatusPendingPayment, created.Status)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "BTC", created.Params.Symbol)
	assert.Equal(t, "pay-9", linkedPayment)
	assert.Equal(t, "https://pay/9", result.CheckoutURL)
}

func TestCreateAnalysisRequestInvalidCategory(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.CreateAnalysisRequest(context.Background(), "user-1",
		analysis.Category("ASTROLOGY"), analysis.Params{Symbol: "BTC"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestCreateAnalysisRequestMissingSymbol(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.CreateAnalysisRequest(context.Background(), "user-1",
		analysis.CategoryFundamentals, analysis.Params{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestCreateAnalysisRequestPaymentFailureAbandons(t *testing.T) {
	var abandonedStatus analysis.Status
	store := &MockStore{
		UpdateStatusFunc: func(_ context.Context, _ string, status analysis.Status) error {
			abandonedStatus = status
			return nil
		},
	}
	payments := &MockPayments{
		CreatePaymentFunc: func(_ context.Context, _, _ string, _ decimal.Decimal) (*paymentservice.CheckoutResult, error) {
			return nil, apperrors.DependencyError(errors.New("gateway down"), "payment gateway unavailable")
		},
	}

	svc := newTestService(store, payments, nil, nil)

	_, err := svc.CreateAnalysisRequest(context.Background(), "user-1",
		analysis.CategoryTechnicalAnalysis, analysis.Params{Symbol: "BTC"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure))
	assert.Equal(t, analysis.StatusAbandoned, abandonedStatus)
}

func TestGetAnalysisMasksOtherUsers(t *testing.T) {
	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			return paidAnalysis(id, "owner"), nil
		},
	}

	svc := newTestService(store, nil, nil, nil)

	_, err := svc.GetAnalysis(context.Background(), "someone-else", "analysis-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
}

func TestGetAnalysisNotFound(t *testing.T) {
	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, _ string) (*analysis.Analysis, error) {
			return nil, analysisstore.ErrAnalysisNotFound
		},
	}

	svc := newTestService(store, nil, nil, nil)

	_, err := svc.GetAnalysis(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
}

func TestListUserAnalysesClampsPaging(t *testing.T) {
	var gotOffset, gotLimit int
	store := &MockStore{
		ListByUserFunc: func(_ context.Context, _ string, offset, limit int) ([]*analysis.Analysis, int, error) {
			gotOffset, gotLimit = offset, limit
			return nil, 0, nil
		},
	}

	svc := newTestService(store, nil, nil, nil)

	page, err := svc.ListUserAnalyses(context.Background(), "user-1", -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, gotOffset)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	_, err = svc.ListUserAnalyses(context.Background(), "user-1", 2, 5000)
	require.NoError(t, err)
	assert.Equal(t, 100, gotOffset)
	assert.Equal(t, 100, gotLimit)
}

func TestProcessAnalysisPaymentGate(t *testing.T) {
	anl := paidAnalysis("analysis-1", "user-1")
	anl.Status = analysis.StatusPendingPayment

	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, _ string) (*analysis.Analysis, error) {
			return anl, nil
		},
	}
	payments := &MockPayments{
		GetPaymentStatusFunc: func(_ context.Context, _, _ string) (*paymentservice.PaymentDetails, error) {
			return &paymentservice.PaymentDetails{
				Payment: &payment.Payment{ID: "pay-1", UserID: "user-1", Status: payment.StatusPending},
			}, nil
		},
	}

	svc := newTestService(store, payments, nil, nil)

	_, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryPaymentRequired))
}

func TestProcessAnalysisHappyPath(t *testing.T) {
	var statuses []analysis.Status
	var stored *analysis.Result

	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			return paidAnalysis(id, "user-1"), nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, status analysis.Status) error {
			statuses = append(statuses, status)
			return nil
		},
		SetResultFunc: func(_ context.Context, _ string, result *analysis.Result) error {
			stored = result
			return nil
		},
	}
	svc := newTestService(store, nil, nil, nil)

	anl, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusCompleted, anl.Status)
	require.NotNil(t, anl.Result)
	assert.Equal(t, []analysis.Status{analysis.StatusProcessing}, statuses)
	require.NotNil(t, stored)
}

func TestProcessAnalysisUsesGeneratedSummary(t *testing.T) {
	var stored *analysis.Result
	var summarized string

	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			return paidAnalysis(id, "user-1"), nil
		},
		SetResultFunc: func(_ context.Context, _ string, result *analysis.Result) error {
			stored = result
			return nil
		},
	}
	gen := &MockGenerator{
		GenerateReportFunc: func(_ context.Context, _ generator.Request) (*analysis.Result, error) {
			return &analysis.Result{FullAnalysis: "Lead paragraph.\n\nFull body.", ExecutiveSummary: "Lead paragraph."}, nil
		},
		SummarizeFunc: func(_ context.Context, text string) (string, error) {
			summarized = text
			return "Condensed summary.", nil
		},
	}

	svc := newTestService(store, nil, nil, gen)

	_, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Condensed summary.", stored.ExecutiveSummary)
	assert.Equal(t, "Lead paragraph.\n\nFull body.", summarized)
}

func TestProcessAnalysisSummaryFailureKeepsLeadingParagraph(t *testing.T) {
	var stored *analysis.Result
	var statuses []analysis.Status

	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			return paidAnalysis(id, "user-1"), nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, status analysis.Status) error {
			statuses = append(statuses, status)
			return nil
		},
		SetResultFunc: func(_ context.Context, _ string, result *analysis.Result) error {
			stored = result
			return nil
		},
	}
	gen := &MockGenerator{
		GenerateReportFunc: func(_ context.Context, _ generator.Request) (*analysis.Result, error) {
			return &analysis.Result{FullAnalysis: "Lead paragraph.\n\nFull body.", ExecutiveSummary: "Lead paragraph."}, nil
		},
		SummarizeFunc: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}

	svc := newTestService(store, nil, nil, gen)

	anl, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusCompleted, anl.Status)
	require.NotNil(t, stored)
	assert.Equal(t, "Lead paragraph.", stored.ExecutiveSummary)
	assert.Equal(t, []analysis.Status{analysis.StatusProcessing}, statuses)
}

func TestProcessAnalysisMarketDataFailureMarksFailed(t *testing.T) {
	var statuses []analysis.Status
	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			return paidAnalysis(id, "user-1"), nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, status analysis.Status) error {
			statuses = append(statuses, status)
			return nil
		},
	}
	market := &MockMarketData{
		SnapshotFunc: func(_ context.Context, _ string) (*marketdata.Snapshot, error) {
			return nil, errors.New("all providers down")
		},
	}

	svc := newTestService(store, nil, market, nil)

	_, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure))
	assert.Equal(t, []analysis.Status{analysis.StatusProcessing, analysis.StatusFailed}, statuses)
}

func TestProcessAnalysisGeneratorFailureMarksFailed(t *testing.T) {
	var statuses []analysis.Status
	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			return paidAnalysis(id, "user-1"), nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, status analysis.Status) error {
			statuses = append(statuses, status)
			return nil
		},
	}
	gen := &MockGenerator{
		GenerateReportFunc: func(_ context.Context, _ generator.Request) (*analysis.Result, error) {
			return nil, errors.New("model unavailable")
		},
	}

	svc := newTestService(store, nil, nil, gen)

	_, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure))
	assert.Equal(t, []analysis.Status{analysis.StatusProcessing, analysis.StatusFailed}, statuses)
}

func TestProcessAnalysisCompletedIsNoOp(t *testing.T) {
	updateCalls := 0
	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			anl := paidAnalysis(id, "user-1")
			anl.Status = analysis.StatusCompleted
			anl.Result = &analysis.Result{FullAnalysis: "done"}
			return anl, nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, _ analysis.Status) error {
			updateCalls++
			return nil
		},
	}

	svc := newTestService(store, nil, nil, nil)

	anl, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusCompleted, anl.Status)
	assert.Zero(t, updateCalls)
}

func TestProcessAnalysisProcessingConflict(t *testing.T) {
	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			anl := paidAnalysis(id, "user-1")
			anl.Status = analysis.StatusProcessing
			anl.UpdatedAt = time.Now()
			return anl, nil
		},
	}

	svc := newTestService(store, nil, nil, nil)

	_, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func TestProcessAnalysisStaleProcessingRetries(t *testing.T) {
	var statuses []analysis.Status
	var stored *analysis.Result

	store := &MockStore{
		GetAnalysisFunc: func(_ context.Context, id string) (*analysis.Analysis, error) {
			anl := paidAnalysis(id, "user-1")
			anl.Status = analysis.StatusProcessing
			anl.UpdatedAt = time.Now().Add(-time.Hour)
			return anl, nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, status analysis.Status) error {
			statuses = append(statuses, status)
			return nil
		},
		SetResultFunc: func(_ context.Context, _ string, result *analysis.Result) error {
			stored = result
			return nil
		},
	}

	svc := newTestService(store, nil, nil, nil)

	anl, err := svc.ProcessAnalysis(context.Background(), "user-1", "analysis-1")
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusCompleted, anl.Status)
	assert.Equal(t, []analysis.Status{analysis.StatusProcessing}, statuses)
	require.NotNil(t, stored)
}
