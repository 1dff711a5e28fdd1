package analysisstore

import (
	"context"
	"errors"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
)

// ErrAnalysisNotFound is returned when an analysis lookup finds no matching record.
var ErrAnalysisNotFound = errors.New("analysis not found")

// Store defines the interface for analysis data persistence.
type Store interface {
	CreateAnalysis(ctx context.Context, analysis *analysis.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*analysis.Analysis, error)
	GetAnalysisByPaymentID(ctx context.Context, paymentID string) (*analysis.Analysis, error)
	LinkPayment(ctx context.Context, id, paymentID string) error
	UpdateStatus(ctx context.Context, id string, status analysis.Status) error
	SetResult(ctx context.Context, id string, result *analysis.Result) error
	// ListByUser returns one page of a user's analyses, newest first,
	// together with the total count across all pages.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*analysis.Analysis, int, error)
}
