// Package payment holds the domain model for monetary obligations.
package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a Payment.
// PENDING is the only non-terminal state; COMPLETED and FAILED are terminal
// and immutable once reached.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Payment represents one monetary obligation tied to exactly one Analysis.
// The amount is immutable once set and is always carried as a fixed-point
// decimal, never a float.
type Payment struct {
	ID         string
	UserID     string
	Category   string
	Amount     decimal.Decimal
	Currency   string
	Status     Status
	GatewayRef *string
	TxHash     *string
	CreatedAt  time.Time
	// CompletedAt is set once, when the payment reaches a terminal state.
	CompletedAt *time.Time
}

// New creates a Payment in PENDING with no gateway reference yet.
func New(id, userID, category string, amount decimal.Decimal, currency string) *Payment {
	return &Payment{
		ID:        id,
		UserID:    userID,
		Category:  category,
		Amount:    amount,
		Currency:  currency,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}
