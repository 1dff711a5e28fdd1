// Package paygate adapts the external crypto payment gateway: intent
// creation for checkout and signed webhook ingestion for settlement.
package paygate

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidSignature is returned when a webhook fails HMAC verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrMalformedWebhook is returned when a webhook body cannot be parsed.
var ErrMalformedWebhook = errors.New("malformed webhook payload")

// IntentRequest asks the gateway to open a checkout for one payment.
type IntentRequest struct {
	PaymentID   string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// Intent is the gateway's answer: where to send the payer and the gateway's
// own reference for the payment.
type Intent struct {
	GatewayRef  string
	CheckoutURL string
}

// EventStatus is the settlement outcome carried by a webhook.
type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventCompleted EventStatus = "completed"
	EventFailed    EventStatus = "failed"
)

// Event is a verified, normalized webhook notification.
type Event struct {
	PaymentID  string
	GatewayRef string
	Status     EventStatus
	TxHash     string
	PaidAmount decimal.Decimal
}

// Gateway is the payment gateway adapter.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	// ParseWebhook verifies the signature and normalizes the payload.
	// It returns ErrInvalidSignature or ErrMalformedWebhook for rejects.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
