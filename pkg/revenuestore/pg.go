package revenuestore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the revenue store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) ActiveStakeholders(ctx context.Context) ([]*revenue.StakeholderEntry, error) {
	var daos []StakeholderDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("active = TRUE").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stakeholders: %w", err)
	}

	entries := make([]*revenue.StakeholderEntry, len(daos))
	for i := range daos {
		entries[i], err = toStakeholder(&daos[i])
		if err != nil {
			return nil, fmt.Errorf("failed to decode stakeholder: %w", err)
		}
	}
	return entries, nil
}

func (s *pgStore) UpsertStakeholder(ctx context.Context, entry *revenue.StakeholderEntry) error {
	dao := &StakeholderDao{
		Wallet:   entry.Wallet,
		Share:    entry.Share.String(),
		Category: entry.Category,
		Active:   entry.Active,
	}

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (wallet) DO UPDATE").
		Set("share = EXCLUDED.share").
		Set("category = EXCLUDED.category").
		Set("active = EXCLUDED.active").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert stakeholder: %w", err)
	}
	return nil
}

func (s *pgStore) HasDistributions(ctx context.Context, paymentID string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*DistributionDao)(nil)).
		Where("payment_id = ?", paymentID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check distributions: %w", err)
	}
	return exists, nil
}

func (s *pgStore) CreateDistributions(ctx context.Context, dists []*revenue.Distribution) error {
	if len(dists) == 0 {
		return nil
	}

	daos := make([]*DistributionDao, len(dists))
	for i, dist := range dists {
		daos[i] = toDistributionDao(dist)
	}

	_, err := s.db.NewInsert().
		Model(&daos).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create distributions: %w", err)
	}
	return nil
}

func (s *pgStore) MarkDistributionCompleted(ctx context.Context, id, transferRef string) error {
	_, err := s.db.NewUpdate().
		Model((*DistributionDao)(nil)).
		Set("status = ?", string(revenue.DistributionCompleted)).
		Set("transfer_ref = ?", transferRef).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark distribution completed: %w", err)
	}
	return nil
}

func (s *pgStore) MarkDistributionFailed(ctx context.Context, id string) error {
	_, err := s.db.NewUpdate().
		Model((*DistributionDao)(nil)).
		Set("status = ?", string(revenue.DistributionFailed)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark distribution failed: %w", err)
	}
	return nil
}

func (s *pgStore) ListByPayment(ctx context.Context, paymentID string) ([]*revenue.Distribution, error) {
	var daos []DistributionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}

	dists := make([]*revenue.Distribution, len(daos))
	for i := range daos {
		dists[i], err = toDistribution(&daos[i])
		if err != nil {
			return nil, fmt.Errorf("failed to decode distribution: %w", err)
		}
	}
	return dists, nil
}

// summaryRow is the scan target for the dashboard aggregate query.
type summaryRow struct {
	Category       string `bun:"category"`
	Count          int    `bun:"count"`
	TotalAmount    string `bun:"total_amount"`
	CompletedCount int    `bun:"completed_count"`
	FailedCount    int    `bun:"failed_count"`
	PendingCount   int    `bun:"pending_count"`
}

func (s *pgStore) DashboardSummary(ctx context.Context) ([]*revenue.CategorySummary, error) {
	var rows []summaryRow
	err := s.db.NewSelect().
		Model((*DistributionDao)(nil)).
		ColumnExpr("category").
		ColumnExpr("COUNT(*) AS count").
		ColumnExpr("COALESCE(SUM(amount), 0) AS total_amount").
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS completed_count", string(revenue.DistributionCompleted)).
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS failed_count", string(revenue.DistributionFailed)).
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS pending_count", string(revenue.DistributionPending)).
		GroupExpr("category").
		OrderExpr("category ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	summaries := make([]*revenue.CategorySummary, len(rows))
	for i, row := range rows {
		total, err := decimal.NewFromString(row.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to decode summary amount: %w", err)
		}
		summaries[i] = &revenue.CategorySummary{
			Category:       row.Category,
			Count:          row.Count,
			TotalAmount:    total,
			CompletedCount: row.CompletedCount,
			FailedCount:    row.FailedCount,
			PendingCount:   row.PendingCount,
		}
	}
	return summaries, nil
}
