// Package generator produces analysis reports from market context through a
// chat-completion model API.
package generator

import (
	"context"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/marketdata"
)

// Request carries everything needed to generate one report.
type Request struct {
	Category analysis.Category
	Params   analysis.Params
	Market   *marketdata.Snapshot
}

// Generator produces a complete analysis result for a paid request and
// condenses finished reports into executive summaries.
type Generator interface {
	GenerateReport(ctx context.Context, req Request) (*analysis.Result, error)
	Summarize(ctx context.Context, text string) (string, error)
}
