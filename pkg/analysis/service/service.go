// Package service implements the analysis orchestration: request intake
// with checkout, the payment-gated processing pipeline, and owner-scoped
// reads.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/internal/metrics"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysisstore"
	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/generator"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/marketdata"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
	paymentservice "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// staleProcessingAfter bounds how long a PROCESSING record blocks
	// reprocessing. A record older than this marks a run that died before
	// reaching a terminal status and may be retried.
	staleProcessingAfter = 15 * time.Minute
)

var (
	ErrInvalidCategory   = errors.New("unknown analysis category")
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrPaymentIncomplete = errors.New("payment has not completed")
	ErrAlreadyProcessing = errors.New("analysis is already processing")
)

// Store is the narrow data-access interface for the analysis service.
type Store interface {
	CreateAnalysis(ctx context.Context, anl *analysis.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*analysis.Analysis, error)
	LinkPayment(ctx context.Context, id, paymentID string) error
	UpdateStatus(ctx context.Context, id string, status analysis.Status) error
	SetResult(ctx context.Context, id string, result *analysis.Result) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*analysis.Analysis, int, error)
}

// Payments is the slice of the payment service the analysis service uses.
type Payments interface {
	CreatePayment(ctx context.Context, userID, category string, amount decimal.Decimal) (*paymentservice.CheckoutResult, error)
	GetPaymentStatus(ctx context.Context, userID, id string) (*paymentservice.PaymentDetails, error)
}

// MarketData serves the market snapshot feeding report generation.
type MarketData interface {
	Snapshot(ctx context.Context, symbol string) (*marketdata.Snapshot, error)
}

// CreateResult is the outcome of a new analysis request.
type CreateResult struct {
	Analysis    *analysis.Analysis
	CheckoutURL string
}

// Page is one page of a user's analyses.
type Page struct {
	Items []*analysis.Analysis
	Total int
	Page  int
	Limit int
}

// Service defines the interface for the analysis business logic
type Service interface {
	CreateAnalysisRequest(ctx context.Context, userID string, category analysis.Category, params analysis.Params) (*CreateResult, error)
	GetAnalysis(ctx context.Context, userID, id string) (*analysis.Analysis, error)
	ListUserAnalyses(ctx context.Context, userID string, page, limit int) (*Page, error)
	ProcessAnalysis(ctx context.Context, userID, id string) (*analysis.Analysis, error)
}

type analysisService struct {
	store     Store
	payments  Payments
	market    MarketData
	generator generator.Generator
	logger    *zap.Logger
}

// NewService creates a new analysis service
func NewService(
	store Store,
	payments Payments,
	market MarketData,
	gen generator.Generator,
	logger *zap.Logger,
) Service {
	return &analysisService{
		store:     store,
		payments:  payments,
		market:    market,
		generator: gen,
		logger:    logger,
	}
}

// CreateAnalysisRequest records the analysis with its price snapshotted,
// then opens the payment. A payment failure leaves the analysis ABANDONED
// rather than deleting it, keeping an audit trail of the attempt.
func (s *analysisService) CreateAnalysisRequest(
	ctx context.Context,
	userID string,
	category analysis.Category,
	params analysis.Params,
) (*CreateResult, error) {
	price, ok := analysis.PriceFor(category)
	if !ok {
		return nil, apperrors.BadRequestError(ErrInvalidCategory,
			fmt.Sprintf("unknown category %q", category))
	}
	if strings.TrimSpace(params.Symbol) == "" {
		return nil, apperrors.BadRequestError(nil, "symbol is required")
	}
	params.Symbol = strings.ToUpper(strings.TrimSpace(params.Symbol))

	anl := analysis.New(uuid.NewString(), userID, category, params, price)
	if err := s.store.CreateAnalysis(ctx, anl); err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	checkout, err := s.payments.CreatePayment(ctx, userID, string(category), price)
	if err != nil {
		if abandonErr := s.store.UpdateStatus(ctx, anl.ID, analysis.StatusAbandoned); abandonErr != nil {
			s.logger.Error("failed to abandon analysis after payment error",
				zap.String("analysis_id", anl.ID),
				zap.Error(abandonErr))
		}
		metrics.AnalysesTotal.WithLabelValues(string(category), string(analysis.StatusAbandoned)).Inc()
		return nil, err
	}

	if err := s.store.LinkPayment(ctx, anl.ID, checkout.Payment.ID); err != nil {
		return nil, fmt.Errorf("failed to link payment: %w", err)
	}
	anl.PaymentID = checkout.Payment.ID

	metrics.AnalysesTotal.WithLabelValues(string(category), string(analysis.StatusPendingPayment)).Inc()

	return &CreateResult{
		Analysis:    anl,
		CheckoutURL: checkout.CheckoutURL,
	}, nil
}

// GetAnalysis returns an analysis the user owns. Another user's analysis
// reads as not found so IDs cannot be probed for existence.
func (s *analysisService) GetAnalysis(ctx context.Context, userID, id string) (*analysis.Analysis, error) {
	anl, err := s.store.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, analysisstore.ErrAnalysisNotFound) {
			return nil, apperrors.ResourceNotFoundError(ErrAnalysisNotFound, "analysis not found")
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if anl.UserID != userID {
		return nil, apperrors.ResourceNotFoundError(ErrAnalysisNotFound, "analysis not found")
	}

	return anl, nil
}

// ListUserAnalyses returns one page of the user's analyses, newest first.
// Out-of-range paging inputs are clamped, never rejected.
func (s *analysisService) ListUserAnalyses(ctx context.Context, userID string, page, limit int) (*Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, total, err := s.store.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	return &Page{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// ProcessAnalysis runs the generation pipeline behind the payment gate.
// A COMPLETED analysis is returned as-is; FAILED analyses may be retried.
// Once past the gate, every failure path lands the analysis in FAILED so
// nothing is left stuck in PROCESSING.
func (s *analysisService) ProcessAnalysis(ctx context.Context, userID, id string) (*analysis.Analysis, error) {
	anl, err := s.GetAnalysis(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	switch anl.Status {
	case analysis.StatusCompleted:
		return anl, nil
	case analysis.StatusProcessing:
		if time.Since(anl.UpdatedAt) < staleProcessingAfter {
			return nil, apperrors.ConflictError(ErrAlreadyProcessing, "analysis is already processing")
		}
		s.logger.Warn("retrying analysis stuck in processing",
			zap.String("analysis_id", anl.ID),
			zap.Time("last_update", anl.UpdatedAt))
	case analysis.StatusAbandoned:
		return nil, apperrors.ConflictError(nil, "analysis was abandoned")
	}

	if err := s.checkPaymentGate(ctx, anl); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, anl.ID, analysis.StatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to mark analysis processing: %w", err)
	}

	result, err := s.generate(ctx, anl)
	if err != nil {
		s.markFailed(ctx, anl)
		return nil, err
	}

	if err := s.store.SetResult(ctx, anl.ID, result); err != nil {
		s.markFailed(ctx, anl)
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	metrics.AnalysesTotal.WithLabelValues(string(anl.Category), string(analysis.StatusCompleted)).Inc()

	anl.Status = analysis.StatusCompleted
	anl.Result = result
	now := time.Now()
	anl.CompletedAt = &now
	return anl, nil
}

// checkPaymentGate rejects processing until the linked payment is COMPLETED.
func (s *analysisService) checkPaymentGate(ctx context.Context, anl *analysis.Analysis) error {
	if anl.Status == analysis.StatusPaid {
		return nil
	}

	if anl.PaymentID == "" {
		return apperrors.PaymentRequiredError(ErrPaymentIncomplete, "no payment linked to this analysis")
	}

	details, err := s.payments.GetPaymentStatus(ctx, anl.UserID, anl.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to check payment: %w", err)
	}
	if details.Payment.Status != payment.StatusCompleted {
		return apperrors.PaymentRequiredError(ErrPaymentIncomplete,
			fmt.Sprintf("payment is %s", details.Payment.Status))
	}

	return nil
}

// generate fetches the market snapshot, runs the report generator, then
// condenses the finished report into its executive summary.
func (s *analysisService) generate(ctx context.Context, anl *analysis.Analysis) (*analysis.Result, error) {
	snapshot, err := s.market.Snapshot(ctx, anl.Params.Symbol)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("analysis", "market_data").Inc()
		return nil, apperrors.DependencyError(err, "market data unavailable")
	}

	start := time.Now()
	result, err := s.generator.GenerateReport(ctx, generator.Request{
		Category: anl.Category,
		Params:   anl.Params,
		Market:   snapshot,
	})
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("analysis", "generation").Inc()
		return nil, apperrors.DependencyError(err, "report generation unavailable")
	}
	metrics.GenerationDuration.WithLabelValues(string(anl.Category)).Observe(time.Since(start).Seconds())

	// The report is already paid for; a failed summary call degrades to the
	// report's leading paragraph instead of failing the analysis.
	summary, err := s.generator.Summarize(ctx, result.FullAnalysis)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("analysis", "summary").Inc()
		s.logger.Warn("summary generation failed, keeping leading paragraph",
			zap.String("analysis_id", anl.ID),
			zap.Error(err))
	} else {
		result.ExecutiveSummary = summary
	}

	return result, nil
}

func (s *analysisService) markFailed(ctx context.Context, anl *analysis.Analysis) {
	if err := s.store.UpdateStatus(ctx, anl.ID, analysis.StatusFailed); err != nil {
		s.logger.Error("failed to mark analysis failed",
			zap.String("analysis_id", anl.ID),
			zap.Error(err))
	}
	metrics.AnalysesTotal.WithLabelValues(string(anl.Category), string(analysis.StatusFailed)).Inc()
}
