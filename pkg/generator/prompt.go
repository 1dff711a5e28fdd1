package generator

import (
	"fmt"
	"strings"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
)

const systemPrompt = "You are a senior cryptocurrency market analyst. " +
	"Write a clear, structured report for a paying client. " +
	"Ground every claim in the market data provided. " +
	"Never give financial advice framed as a guarantee."

const summarySystemPrompt = "You are a senior cryptocurrency market analyst. " +
	"Condense the report you are given into a two to three sentence executive summary. " +
	"Keep the concrete numbers. Do not introduce claims the report does not make."

// categoryInstructions tailors the report body per purchased category.
var categoryInstructions = map[analysis.Category]string{
	analysis.CategoryTechnicalAnalysis: "Focus on price action, support and resistance levels, momentum, and chart structure for the requested timeframe.",
	analysis.CategoryFundamentals:      "Focus on the project's fundamentals: adoption, tokenomics, on-chain activity, and competitive position.",
	analysis.CategoryPricePrediction:   "Give scenario-based price projections for the requested timeframe with explicit assumptions for each scenario.",
	analysis.CategoryPortfolioReview:   "Review the position sizing implied by the client's amount and risk tolerance, and suggest rebalancing options.",
	analysis.CategoryMarketSentiment:   "Focus on crowd positioning, the fear/greed reading, and how current sentiment compares to market structure.",
}

// buildUserPrompt renders the request and market snapshot into the user turn.
func buildUserPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category: %s\n", req.Category)
	fmt.Fprintf(&b, "Asset: %s\n", req.Params.Symbol)
	if req.Params.Timeframe != "" {
		fmt.Fprintf(&b, "Timeframe: %s\n", req.Params.Timeframe)
	}
	if req.Params.RiskTolerance != "" {
		fmt.Fprintf(&b, "Risk tolerance: %s\n", req.Params.RiskTolerance)
	}
	if !req.Params.Amount.IsZero() {
		fmt.Fprintf(&b, "Position size: %s USD\n", req.Params.Amount.String())
	}

	b.WriteString("\nCurrent market data:\n")
	b.WriteString(marketSnapshotText(req))

	if instr, ok := categoryInstructions[req.Category]; ok {
		b.WriteString("\n")
		b.WriteString(instr)
	}
	b.WriteString("\nStart the report with a two to three sentence executive summary paragraph, then a blank line, then the full analysis.")

	return b.String()
}

// marketSnapshotText renders the snapshot as the plain-text block that is both
// fed to the model and stored on the result.
func marketSnapshotText(req Request) string {
	var b strings.Builder

	m := req.Market
	if m == nil {
		return "market data unavailable\n"
	}

	if m.Quote != nil {
		fmt.Fprintf(&b, "%s price: $%s (24h change: %s%%, 24h volume: $%s, market cap: $%s)\n",
			m.Quote.Symbol,
			m.Quote.PriceUSD.StringFixed(2),
			m.Quote.Change24h.StringFixed(2),
			m.Quote.Volume24h.StringFixed(0),
			m.Quote.MarketCap.StringFixed(0))
	}
	if m.Global != nil {
		fmt.Fprintf(&b, "Total crypto market cap: $%s, BTC dominance: %s%%\n",
			m.Global.TotalMarketCapUSD.StringFixed(0),
			m.Global.BTCDominance.StringFixed(2))
	}
	if m.Sentiment != nil {
		fmt.Fprintf(&b, "Fear & Greed index: %d (%s)\n",
			m.Sentiment.Score, m.Sentiment.Classification)
	}

	return b.String()
}

// extractSummary takes the leading paragraph of the report as the executive
// summary. Reports without a paragraph break summarize as their first 300
// runes.
func extractSummary(fullText string) string {
	trimmed := strings.TrimSpace(fullText)

	if idx := strings.Index(trimmed, "\n\n"); idx > 0 {
		return strings.TrimSpace(trimmed[:idx])
	}

	runes := []rune(trimmed)
	if len(runes) <= 300 {
		return trimmed
	}
	return string(runes[:300])
}
