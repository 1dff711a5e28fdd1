package marketdata

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// neutralSentiment is used whenever the sentiment feed is down. Reports note
// the neutral reading rather than failing the whole analysis.
const neutralSentiment = 50

// Gateway front-ends the market data providers. Quotes and global stats try
// the primary provider first and fall back to the secondary; sentiment is
// best-effort and never fails a snapshot.
type Gateway struct {
	primary   Provider
	fallback  Provider
	sentiment SentimentProvider
	logger    *zap.Logger
}

// NewGateway creates a market data gateway. fallback and sentiment may be nil.
func NewGateway(primary, fallback Provider, sentiment SentimentProvider, logger *zap.Logger) *Gateway {
	return &Gateway{
		primary:   primary,
		fallback:  fallback,
		sentiment: sentiment,
		logger:    logger,
	}
}

// Quote fetches a quote from the primary provider, falling back on error.
// An error is returned only when every configured provider failed.
func (g *Gateway) Quote(ctx context.Context, symbol string) (*Quote, error) {
	quote, err := g.primary.Quote(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	if g.fallback == nil {
		return nil, fmt.Errorf("quote unavailable: %w", err)
	}

	g.logger.Warn("primary quote provider failed, using fallback",
		zap.String("symbol", symbol),
		zap.Error(err))

	quote, fbErr := g.fallback.Quote(ctx, symbol)
	if fbErr != nil {
		return nil, fmt.Errorf("quote unavailable: primary: %v, fallback: %w", err, fbErr)
	}
	return quote, nil
}

// GlobalStats fetches market-wide stats with the same fallback behavior.
func (g *Gateway) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	stats, err := g.primary.GlobalStats(ctx)
	if err == nil {
		return stats, nil
	}

	if g.fallback == nil {
		return nil, fmt.Errorf("global stats unavailable: %w", err)
	}

	g.logger.Warn("primary global stats provider failed, using fallback",
		zap.Error(err))

	stats, fbErr := g.fallback.GlobalStats(ctx)
	if fbErr != nil {
		return nil, fmt.Errorf("global stats unavailable: primary: %v, fallback: %w", err, fbErr)
	}
	return stats, nil
}

// Sentiment returns the current fear/greed reading, or the neutral default
// when the feed is unavailable.
func (g *Gateway) Sentiment(ctx context.Context) *Sentiment {
	if g.sentiment == nil {
		return &Sentiment{Score: neutralSentiment, Classification: "Neutral"}
	}

	sentiment, err := g.sentiment.Sentiment(ctx)
	if err != nil {
		g.logger.Warn("sentiment feed unavailable, using neutral default",
			zap.Error(err))
		return &Sentiment{Score: neutralSentiment, Classification: "Neutral"}
	}
	return sentiment
}

// Snapshot fetches the quote and global stats concurrently, then the
// sentiment reading. Quote and global stats are required; sentiment is not.
func (g *Gateway) Snapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	var (
		quote  *Quote
		global *GlobalStats
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		quote, err = g.Quote(egCtx, symbol)
		return err
	})
	eg.Go(func() error {
		var err error
		global, err = g.GlobalStats(egCtx)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Quote:     quote,
		Global:    global,
		Sentiment: g.Sentiment(ctx),
	}, nil
}
