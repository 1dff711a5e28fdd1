// Package service implements the payment orchestration: checkout creation,
// webhook reconciliation, and the post-settlement actions.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/internal/metrics"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysisstore"
	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/paygate"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/paymentstore"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
)

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentAlreadySettled = errors.New("payment already settled with a different outcome")
)

// Store is the narrow data-access interface for the payment service.
type Store interface {
	CreatePayment(ctx context.Context, pmt *payment.Payment) error
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	SetGatewayRef(ctx context.Context, id, gatewayRef string) error
	CompleteIfPending(ctx context.Context, id, txHash string, completedAt time.Time) (bool, error)
	FailIfPending(ctx context.Context, id string, failedAt time.Time) (bool, error)
}

// AnalysisStore is the slice of analysis persistence the payment service
// touches when a settlement lands.
type AnalysisStore interface {
	GetAnalysisByPaymentID(ctx context.Context, paymentID string) (*analysis.Analysis, error)
	UpdateStatus(ctx context.Context, id string, status analysis.Status) error
}

// Distributor splits settled revenue across stakeholders.
type Distributor interface {
	Distribute(ctx context.Context, paymentID string, amount decimal.Decimal) error
}

// Distributions is the read side of the revenue split, used to report payout
// progress on a payment.
type Distributions interface {
	ListByPayment(ctx context.Context, paymentID string) ([]*revenue.Distribution, error)
}

// CheckoutResult is the outcome of opening a payment.
type CheckoutResult struct {
	Payment     *payment.Payment
	CheckoutURL string
}

// PaymentDetails is a payment joined with its payout rows and the analysis it
// unlocks. Analysis is nil when no analysis references the payment.
type PaymentDetails struct {
	Payment       *payment.Payment
	Distributions []*revenue.Distribution
	Analysis      *analysis.Analysis
}

// Service defines the interface for the payment business logic
type Service interface {
	CreatePayment(ctx context.Context, userID, category string, amount decimal.Decimal) (*CheckoutResult, error)
	GetPaymentStatus(ctx context.Context, userID, id string) (*PaymentDetails, error)
	ReconcileWebhook(ctx context.Context, payload []byte, signature string) error
	CompletePayment(ctx context.Context, userID, id string) (*PaymentDetails, error)
}

type paymentService struct {
	store         Store
	analyses      AnalysisStore
	gateway       paygate.Gateway
	distributor   Distributor
	distributions Distributions
	logger        *zap.Logger
}

// NewService creates a new payment service
func NewService(
	store Store,
	analyses AnalysisStore,
	gateway paygate.Gateway,
	distributor Distributor,
	distributions Distributions,
	logger *zap.Logger,
) Service {
	return &paymentService{
		store:         store,
		analyses:      analyses,
		gateway:       gateway,
		distributor:   distributor,
		distributions: distributions,
		logger:        logger,
	}
}

// CreatePayment records a PENDING payment and opens a gateway checkout for
// it. The record is written before the gateway call; a gateway failure
// flips the record to FAILED so no orphan PENDING rows accumulate.
func (s *paymentService) CreatePayment(
	ctx context.Context,
	userID, category string,
	amount decimal.Decimal,
) (*CheckoutResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.BadRequestError(nil, "amount must be positive")
	}

	pmt := payment.New(uuid.NewString(), userID, category, amount, "USD")
	if err := s.store.CreatePayment(ctx, pmt); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	intent, err := s.gateway.CreateIntent(ctx, paygate.IntentRequest{
		PaymentID:   pmt.ID,
		Amount:      amount,
		Currency:    pmt.Currency,
		Description: fmt.Sprintf("%s analysis", category),
	})
	if err != nil {
		if _, failErr := s.store.FailIfPending(ctx, pmt.ID, time.Now()); failErr != nil {
			s.logger.Error("failed to fail payment after gateway error",
				zap.String("payment_id", pmt.ID),
				zap.Error(failErr))
		}
		metrics.PaymentsTotal.WithLabelValues(string(payment.StatusFailed)).Inc()
		return nil, apperrors.DependencyError(err, "payment gateway unavailable")
	}

	if err := s.store.SetGatewayRef(ctx, pmt.ID, intent.GatewayRef); err != nil {
		return nil, fmt.Errorf("failed to store gateway ref: %w", err)
	}
	pmt.GatewayRef = &intent.GatewayRef

	return &CheckoutResult{
		Payment:     pmt,
		CheckoutURL: intent.CheckoutURL,
	}, nil
}

// GetPaymentStatus returns a payment the user owns, joined with its payout
// rows and the analysis it unlocks. Lookups against another user's payment
// read as not found so payment IDs cannot be probed.
func (s *paymentService) GetPaymentStatus(ctx context.Context, userID, id string) (*PaymentDetails, error) {
	pmt, err := s.store.GetPayment(ctx, id)
	if err != nil {
		if errors.Is(err, paymentstore.ErrPaymentNotFound) {
			return nil, apperrors.ResourceNotFoundError(ErrPaymentNotFound, "payment not found")
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if pmt.UserID != userID {
		return nil, apperrors.ResourceNotFoundError(ErrPaymentNotFound, "payment not found")
	}

	dists, err := s.distributions.ListByPayment(ctx, pmt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}

	details := &PaymentDetails{
		Payment:       pmt,
		Distributions: dists,
	}

	anl, err := s.analyses.GetAnalysisByPaymentID(ctx, pmt.ID)
	switch {
	case err == nil:
		details.Analysis = anl
	case errors.Is(err, analysisstore.ErrAnalysisNotFound):
		// A payment can momentarily exist before the analysis links to it.
	default:
		return nil, fmt.Errorf("failed to load linked analysis: %w", err)
	}

	return details, nil
}

// ReconcileWebhook verifies and applies one gateway notification. Repeat
// deliveries of the same outcome are acknowledged without effect; an
// attempt to flip an already settled payment to the opposite outcome is a
// conflict.
func (s *paymentService) ReconcileWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, paygate.ErrInvalidSignature) {
			return apperrors.UnAuthorizedError(err, "invalid webhook signature")
		}
		return apperrors.BadRequestError(err, "invalid webhook payload")
	}

	if event.Status == paygate.EventPending {
		s.logger.Debug("ignoring non-terminal webhook",
			zap.String("payment_id", event.PaymentID))
		metrics.WebhooksTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	pmt, err := s.store.GetPayment(ctx, event.PaymentID)
	if err != nil {
		if errors.Is(err, paymentstore.ErrPaymentNotFound) {
			return apperrors.ResourceNotFoundError(err, "unknown payment reference")
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	switch event.Status {
	case paygate.EventCompleted:
		return s.applyCompleted(ctx, pmt, event.TxHash)
	case paygate.EventFailed:
		return s.applyFailed(ctx, pmt)
	default:
		return apperrors.BadRequestError(nil, "unknown webhook status")
	}
}

// CompletePayment settles a payment outside the gateway flow. Used by the
// sandbox checkout where no IPN is delivered. Completing an already
// completed payment is a no-op.
func (s *paymentService) CompletePayment(ctx context.Context, userID, id string) (*PaymentDetails, error) {
	details, err := s.GetPaymentStatus(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyCompleted(ctx, details.Payment, ""); err != nil {
		return nil, err
	}

	return s.GetPaymentStatus(ctx, userID, id)
}

// applyCompleted performs the PENDING -> COMPLETED swap and, when this call
// won the swap, runs the settlement actions. The swap serializes concurrent
// deliveries: only the winner unlocks the analysis and distributes revenue.
func (s *paymentService) applyCompleted(ctx context.Context, pmt *payment.Payment, txHash string) error {
	swapped, err := s.store.CompleteIfPending(ctx, pmt.ID, txHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}

	if !swapped {
		return s.checkRepeatDelivery(ctx, pmt.ID, payment.StatusCompleted)
	}

	metrics.PaymentsTotal.WithLabelValues(string(payment.StatusCompleted)).Inc()
	metrics.WebhooksTotal.WithLabelValues("settled").Inc()
	s.logger.Info("payment completed",
		zap.String("payment_id", pmt.ID),
		zap.String("amount", pmt.Amount.String()))

	s.settle(ctx, pmt)
	return nil
}

// applyFailed performs the PENDING -> FAILED swap and marks the linked
// analysis failed.
func (s *paymentService) applyFailed(ctx context.Context, pmt *payment.Payment) error {
	swapped, err := s.store.FailIfPending(ctx, pmt.ID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to fail payment: %w", err)
	}

	if !swapped {
		return s.checkRepeatDelivery(ctx, pmt.ID, payment.StatusFailed)
	}

	metrics.PaymentsTotal.WithLabelValues(string(payment.StatusFailed)).Inc()
	metrics.WebhooksTotal.WithLabelValues("settled").Inc()
	s.logger.Info("payment failed", zap.String("payment_id", pmt.ID))

	s.markAnalysis(ctx, pmt.ID, analysis.StatusFailed)
	return nil
}

// checkRepeatDelivery decides what a lost swap means: the same outcome again
// is an acknowledged no-op, a different terminal outcome is a conflict.
func (s *paymentService) checkRepeatDelivery(ctx context.Context, paymentID string, wanted payment.Status) error {
	current, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to re-read payment: %w", err)
	}

	if current.Status == wanted {
		s.logger.Debug("repeat webhook delivery, no-op",
			zap.String("payment_id", paymentID),
			zap.String("status", string(wanted)))
		metrics.WebhooksTotal.WithLabelValues("repeat").Inc()
		return nil
	}

	metrics.WebhooksTotal.WithLabelValues("conflict").Inc()
	return apperrors.ConflictError(ErrPaymentAlreadySettled,
		fmt.Sprintf("payment already %s", current.Status))
}

// settle runs the post-completion actions. Both actions run even if one
// fails; the payment is already settled and the webhook must still ack, so
// failures here are logged and surface through their own records.
func (s *paymentService) settle(ctx context.Context, pmt *payment.Payment) {
	s.markAnalysis(ctx, pmt.ID, analysis.StatusPaid)

	if err := s.distributor.Distribute(ctx, pmt.ID, pmt.Amount); err != nil {
		s.logger.Error("revenue distribution failed",
			zap.String("payment_id", pmt.ID),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("revenue", "distribution").Inc()
	}
}

func (s *paymentService) markAnalysis(ctx context.Context, paymentID string, status analysis.Status) {
	anl, err := s.analyses.GetAnalysisByPaymentID(ctx, paymentID)
	if err != nil {
		s.logger.Error("failed to find analysis for settled payment",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("payment", "analysis_lookup").Inc()
		return
	}

	if err := s.analyses.UpdateStatus(ctx, anl.ID, status); err != nil {
		s.logger.Error("failed to update analysis status after settlement",
			zap.String("analysis_id", anl.ID),
			zap.String("status", string(status)),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("payment", "analysis_update").Inc()
	}
}
