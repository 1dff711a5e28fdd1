package paymentstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the payment store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreatePayment(ctx context.Context, pmt *payment.Payment) error {
	dao := toPaymentDao(pmt)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (s *pgStore) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	dao := new(PaymentDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return toPayment(dao)
}

func (s *pgStore) GetPaymentByGatewayRef(ctx context.Context, gatewayRef string) (*payment.Payment, error) {
	dao := new(PaymentDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("gateway_ref = ?", gatewayRef).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by gateway ref: %w", err)
	}

	return toPayment(dao)
}

func (s *pgStore) SetGatewayRef(ctx context.Context, id, gatewayRef string) error {
	_, err := s.db.NewUpdate().
		Model((*PaymentDao)(nil)).
		Set("gateway_ref = ?", gatewayRef).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set gateway ref: %w", err)
	}
	return nil
}

// CompleteIfPending marks the payment COMPLETED only while it is still
// PENDING. Concurrent or repeated deliveries race on the WHERE clause;
// exactly one caller sees true.
func (s *pgStore) CompleteIfPending(ctx context.Context, id, txHash string, completedAt time.Time) (bool, error) {
	q := s.db.NewUpdate().
		Model((*PaymentDao)(nil)).
		Set("status = ?", string(payment.StatusCompleted)).
		Set("completed_at = ?", completedAt).
		Where("id = ?", id).
		Where("status = ?", string(payment.StatusPending))

	if txHash != "" {
		q = q.Set("tx_hash = ?", txHash)
	}

	return s.casExec(ctx, q, "complete")
}

// FailIfPending marks the payment FAILED only while it is still PENDING.
func (s *pgStore) FailIfPending(ctx context.Context, id string, failedAt time.Time) (bool, error) {
	q := s.db.NewUpdate().
		Model((*PaymentDao)(nil)).
		Set("status = ?", string(payment.StatusFailed)).
		Set("completed_at = ?", failedAt).
		Where("id = ?", id).
		Where("status = ?", string(payment.StatusPending))

	return s.casExec(ctx, q, "fail")
}

func (s *pgStore) casExec(ctx context.Context, q *bun.UpdateQuery, op string) (bool, error) {
	res, err := q.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to %s payment: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read %s result: %w", op, err)
	}

	return rows == 1, nil
}
