package revenue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/internal/metrics"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/custodian"
)

// Store defines the persistence the engine needs.
type Store interface {
	ActiveStakeholders(ctx context.Context) ([]*StakeholderEntry, error)
	HasDistributions(ctx context.Context, paymentID string) (bool, error)
	CreateDistributions(ctx context.Context, dists []*Distribution) error
	MarkDistributionCompleted(ctx context.Context, id, transferRef string) error
	MarkDistributionFailed(ctx context.Context, id string) error
}

// Transferer submits payout transfers to the custodial wallet provider.
type Transferer interface {
	Transfer(ctx context.Context, req custodian.TransferRequest) (*custodian.TransferResult, error)
}

// Engine splits completed payment revenue across the active stakeholders.
// Every split is recorded as pending rows before any transfer is attempted,
// so a crash mid-distribution leaves an auditable trail instead of silent
// missing payouts.
type Engine struct {
	store          Store
	transferer     Transferer
	platformWallet string
	payoutAsset    string
	logger         *zap.Logger
}

// NewEngine creates a revenue distribution engine.
func NewEngine(store Store, transferer Transferer, platformWallet, payoutAsset string, logger *zap.Logger) *Engine {
	return &Engine{
		store:          store,
		transferer:     transferer,
		platformWallet: platformWallet,
		payoutAsset:    payoutAsset,
		logger:         logger,
	}
}

var oneHundred = decimal.NewFromInt(100)

// Distribute splits the payment amount across active stakeholders by share.
// Calling it again for the same payment is a no-op. Individual transfer
// failures are recorded on their own rows and never block the other
// recipients.
func (e *Engine) Distribute(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	exists, err := e.store.HasDistributions(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to check existing distributions: %w", err)
	}
	if exists {
		e.logger.Debug("payment already distributed", zap.String("payment_id", paymentID))
		return nil
	}

	stakeholders, err := e.store.ActiveStakeholders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stakeholders: %w", err)
	}
	if len(stakeholders) == 0 {
		e.logger.Warn("no active stakeholders configured, skipping distribution",
			zap.String("payment_id", paymentID))
		return nil
	}

	dists := make([]*Distribution, len(stakeholders))
	for i, st := range stakeholders {
		dists[i] = &Distribution{
			ID:        uuid.NewString(),
			PaymentID: paymentID,
			Wallet:    st.Wallet,
			Amount:    amount.Mul(st.Share).Div(oneHundred),
			Category:  st.Category,
			Status:    DistributionPending,
		}
	}

	// Record before transfer.
	if err := e.store.CreateDistributions(ctx, dists); err != nil {
		return fmt.Errorf("failed to record distributions: %w", err)
	}

	e.logger.Info("distributing revenue",
		zap.String("payment_id", paymentID),
		zap.String("amount", amount.String()),
		zap.Int("recipients", len(dists)))

	for _, dist := range dists {
		e.execute(ctx, dist)
	}

	return nil
}

// execute attempts the payout transfer for one recorded distribution.
func (e *Engine) execute(ctx context.Context, dist *Distribution) {
	result, err := e.transferer.Transfer(ctx, custodian.TransferRequest{
		FromWalletID:   e.platformWallet,
		ToWalletID:     dist.Wallet,
		Asset:          e.payoutAsset,
		Amount:         dist.Amount,
		IdempotencyKey: dist.ID,
	})
	if err != nil {
		e.logger.Error("distribution transfer failed",
			zap.String("distribution_id", dist.ID),
			zap.String("payment_id", dist.PaymentID),
			zap.String("wallet", dist.Wallet),
			zap.Error(err))
		metrics.DistributionsTotal.WithLabelValues(dist.Category, string(DistributionFailed)).Inc()

		if markErr := e.store.MarkDistributionFailed(ctx, dist.ID); markErr != nil {
			e.logger.Error("failed to mark distribution failed",
				zap.String("distribution_id", dist.ID),
				zap.Error(markErr))
		}
		return
	}

	if err := e.store.MarkDistributionCompleted(ctx, dist.ID, result.Ref); err != nil {
		e.logger.Error("failed to mark distribution completed",
			zap.String("distribution_id", dist.ID),
			zap.String("transfer_ref", result.Ref),
			zap.Error(err))
		return
	}

	metrics.DistributionsTotal.WithLabelValues(dist.Category, string(DistributionCompleted)).Inc()

	e.logger.Info("distribution completed",
		zap.String("distribution_id", dist.ID),
		zap.String("payment_id", dist.PaymentID),
		zap.String("transfer_ref", result.Ref))
}
