// Package revenue holds the domain model for stakeholder revenue splits and
// the distribution engine that executes them.
package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

// StakeholderEntry is a configured revenue recipient.
// Active shares are expected to sum to 100 at configuration time; the engine
// applies each share independently and does not re-check the total at
// distribution time. Enforcement happens at config load (see config package).
type StakeholderEntry struct {
	ID       int64
	Wallet   string
	Share    decimal.Decimal
	Category string
	Active   bool
}

// DistributionStatus is the state of one per-recipient payout row.
// Transitions are monotonic: pending -> completed or pending -> failed,
// with no further change. A failed row requires external remediation.
type DistributionStatus string

const (
	DistributionPending   DistributionStatus = "pending"
	DistributionCompleted DistributionStatus = "completed"
	DistributionFailed    DistributionStatus = "failed"
)

// Distribution is one recorded transfer attempt from platform funds to one
// stakeholder for one payment. Rows are append-only.
type Distribution struct {
	ID          string
	PaymentID   string
	Wallet      string
	Amount      decimal.Decimal
	Category    string
	Status      DistributionStatus
	TransferRef *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategorySummary aggregates distribution outcomes for one stakeholder
// category, for the revenue dashboard.
type CategorySummary struct {
	Category       string
	Count          int
	TotalAmount    decimal.Decimal
	CompletedCount int
	FailedCount    int
	PendingCount   int
}
