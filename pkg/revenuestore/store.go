package revenuestore

import (
	"context"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
)

// Store defines the interface for stakeholder and distribution persistence.
type Store interface {
	ActiveStakeholders(ctx context.Context) ([]*revenue.StakeholderEntry, error)
	UpsertStakeholder(ctx context.Context, entry *revenue.StakeholderEntry) error

	// HasDistributions reports whether any rows already exist for the payment.
	// Used as the idempotency guard before recording a new split.
	HasDistributions(ctx context.Context, paymentID string) (bool, error)
	CreateDistributions(ctx context.Context, dists []*revenue.Distribution) error
	MarkDistributionCompleted(ctx context.Context, id, transferRef string) error
	MarkDistributionFailed(ctx context.Context, id string) error
	ListByPayment(ctx context.Context, paymentID string) ([]*revenue.Distribution, error)
	DashboardSummary(ctx context.Context) ([]*revenue.CategorySummary, error)
}
