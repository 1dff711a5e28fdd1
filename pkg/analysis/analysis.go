// Package analysis holds the domain model for priced analysis requests.
package analysis

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category identifies the kind of report a user can purchase.
type Category string

const (
	CategoryTechnicalAnalysis Category = "TECHNICAL_ANALYSIS"
	CategoryFundamentals      Category = "FUNDAMENTALS"
	CategoryPricePrediction   Category = "PRICE_PREDICTION"
	CategoryPortfolioReview   Category = "PORTFOLIO_REVIEW"
	CategoryMarketSentiment   Category = "MARKET_SENTIMENT"
)

// pricing is the fixed table of per-category prices in the platform currency.
// An Analysis snapshots its price at creation time; changing this table never
// reprices an existing Analysis.
var pricing = map[Category]decimal.Decimal{
	CategoryTechnicalAnalysis: decimal.NewFromInt(25),
	CategoryFundamentals:      decimal.NewFromInt(30),
	CategoryPricePrediction:   decimal.NewFromInt(40),
	CategoryPortfolioReview:   decimal.NewFromInt(50),
	CategoryMarketSentiment:   decimal.NewFromInt(15),
}

// PriceFor returns the configured price for a category.
// The second return is false for categories outside the fixed table.
func PriceFor(category Category) (decimal.Decimal, bool) {
	price, ok := pricing[category]
	return price, ok
}

// Categories returns the fixed set of purchasable categories.
func Categories() []Category {
	return []Category{
		CategoryTechnicalAnalysis,
		CategoryFundamentals,
		CategoryPricePrediction,
		CategoryPortfolioReview,
		CategoryMarketSentiment,
	}
}

// Status is the lifecycle state of an Analysis.
type Status string

const (
	// StatusPendingPayment is the initial state; generation is gated until
	// the linked payment settles.
	StatusPendingPayment Status = "PENDING_PAYMENT"
	// StatusPaid means the linked payment completed and the analysis is
	// eligible for processing.
	StatusPaid Status = "PAID"
	// StatusProcessing means generation is in flight.
	StatusProcessing Status = "PROCESSING"
	// StatusCompleted is terminal; the result is populated.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed is terminal; generation failed after payment.
	StatusFailed Status = "FAILED"
	// StatusAbandoned marks an analysis whose payment was never created.
	// Such records are garbage and are never retried automatically.
	StatusAbandoned Status = "ABANDONED"
)

// Params are the user-supplied inputs for one analysis request.
type Params struct {
	Symbol        string          `json:"symbol"`
	Timeframe     string          `json:"timeframe,omitempty"`
	RiskTolerance string          `json:"risk_tolerance,omitempty"`
	Amount        decimal.Decimal `json:"amount,omitempty"`
}

// Result is the generated output of a completed analysis.
type Result struct {
	FullAnalysis     string    `json:"full_analysis"`
	ExecutiveSummary string    `json:"executive_summary"`
	MarketSnapshot   string    `json:"market_snapshot"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Analysis represents one requested report and its eventual result.
// It references exactly one Payment for its entire lifetime.
// UpdatedAt moves on every status transition; a PROCESSING record whose
// UpdatedAt is old marks a run that died mid-generation.
type Analysis struct {
	ID          string
	UserID      string
	Category    Category
	Params      Params
	Price       decimal.Decimal
	Status      Status
	PaymentID   string
	Result      *Result
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// New creates an Analysis in its initial state with the price snapshotted.
func New(id, userID string, category Category, params Params, price decimal.Decimal) *Analysis {
	now := time.Now()
	return &Analysis{
		ID:        id,
		UserID:    userID,
		Category:  category,
		Params:    params,
		Price:     price,
		Status:    StatusPendingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
