// Package marketdata fetches live market context from public crypto data
// providers, with a primary/fallback pair for quotes and a best-effort
// sentiment feed.
package marketdata

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price snapshot for one asset.
type Quote struct {
	Symbol    string
	PriceUSD  decimal.Decimal
	Change24h decimal.Decimal
	Volume24h decimal.Decimal
	MarketCap decimal.Decimal
}

// GlobalStats are market-wide aggregates.
type GlobalStats struct {
	TotalMarketCapUSD decimal.Decimal
	BTCDominance      decimal.Decimal
}

// Sentiment is the fear/greed reading, 0 (extreme fear) to 100 (extreme greed).
type Sentiment struct {
	Score          int
	Classification string
}

// Snapshot bundles everything the report generator needs about the market.
type Snapshot struct {
	Quote     *Quote
	Global    *GlobalStats
	Sentiment *Sentiment
}

// Provider serves asset quotes and global aggregates.
type Provider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	GlobalStats(ctx context.Context) (*GlobalStats, error)
}

// SentimentProvider serves the market sentiment reading.
type SentimentProvider interface {
	Sentiment(ctx context.Context) (*Sentiment, error)
}
