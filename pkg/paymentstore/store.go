package paymentstore

import (
	"context"
	"errors"
	"time"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
)

// ErrPaymentNotFound is returned when a payment lookup finds no matching record.
var ErrPaymentNotFound = errors.New("payment not found")

// Store defines the interface for payment data persistence.
//
// CompleteIfPending and FailIfPending are compare-and-swap transitions:
// they only apply when the row is still PENDING and report whether the swap
// happened. Callers use the false return to distinguish a repeat delivery
// from a first settlement without holding any lock.
type Store interface {
	CreatePayment(ctx context.Context, payment *payment.Payment) error
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	GetPaymentByGatewayRef(ctx context.Context, gatewayRef string) (*payment.Payment, error)
	SetGatewayRef(ctx context.Context, id, gatewayRef string) error
	CompleteIfPending(ctx context.Context, id, txHash string, completedAt time.Time) (bool, error)
	FailIfPending(ctx context.Context, id string, failedAt time.Time) (bool, error)
}
