package analysisstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the analysis store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateAnalysis(ctx context.Context, anl *analysis.Analysis) error {
	dao, err := toAnalysisDao(anl)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	_, err = s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

func (s *pgStore) GetAnalysis(ctx context.Context, id string) (*analysis.Analysis, error) {
	dao := new(AnalysisDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return toAnalysis(dao)
}

func (s *pgStore) GetAnalysisByPaymentID(ctx context.Context, paymentID string) (*analysis.Analysis, error) {
	dao := new(AnalysisDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("payment_id = ?", paymentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis by payment: %w", err)
	}

	return toAnalysis(dao)
}

func (s *pgStore) LinkPayment(ctx context.Context, id, paymentID string) error {
	_, err := s.db.NewUpdate().
		Model((*AnalysisDao)(nil)).
		Set("payment_id = ?", paymentID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to link payment: %w", err)
	}
	return nil
}

func (s *pgStore) UpdateStatus(ctx context.Context, id string, status analysis.Status) error {
	_, err := s.db.NewUpdate().
		Model((*AnalysisDao)(nil)).
		Set("status = ?", string(status)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update analysis status: %w", err)
	}
	return nil
}

func (s *pgStore) SetResult(ctx context.Context, id string, result *analysis.Result) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.db.NewUpdate().
		Model((*AnalysisDao)(nil)).
		Set("result = ?", json.RawMessage(encoded)).
		Set("status = ?", string(analysis.StatusCompleted)).
		Set("updated_at = ?", time.Now()).
		Set("completed_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set analysis result: %w", err)
	}
	return nil
}

func (s *pgStore) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*analysis.Analysis, int, error) {
	var daos []AnalysisDao
	total, err := s.db.NewSelect().
		Model(&daos).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}

	analyses := make([]*analysis.Analysis, len(daos))
	for i := range daos {
		analyses[i], err = toAnalysis(&daos[i])
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode analysis: %w", err)
		}
	}
	return analyses, total, nil
}
