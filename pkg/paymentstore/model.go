package paymentstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
)

// PaymentDao is a data access object that maps directly to the 'payments' table in PostgreSQL.
type PaymentDao struct {
	bun.BaseModel `bun:"table:payments,alias:p"`
	ID            string     `bun:"id,pk,type:uuid"`
	UserID        string     `bun:"user_id,notnull,type:uuid"`
	Category      string     `bun:"category,notnull,type:varchar(64)"`
	Amount        string     `bun:"amount,notnull,type:numeric(38,18)"`
	Currency      string     `bun:"currency,notnull,type:varchar(16)"`
	Status        string     `bun:"status,notnull,type:varchar(32)"`
	GatewayRef    *string    `bun:"gateway_ref,type:varchar(255)"`
	TxHash        *string    `bun:"tx_hash,type:varchar(255)"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp"`
	CompletedAt   *time.Time `bun:"completed_at"`
}

// toPaymentDao converts a payment.Payment to PaymentDao.
func toPaymentDao(pmt *payment.Payment) *PaymentDao {
	dao := &PaymentDao{
		ID:          pmt.ID,
		UserID:      pmt.UserID,
		Category:    pmt.Category,
		Amount:      pmt.Amount.String(),
		Currency:    pmt.Currency,
		Status:      string(pmt.Status),
		GatewayRef:  pmt.GatewayRef,
		TxHash:      pmt.TxHash,
		CreatedAt:   pmt.CreatedAt,
		CompletedAt: pmt.CompletedAt,
	}

	return dao
}

// toPayment converts a PaymentDao to payment.Payment.
func toPayment(dao *PaymentDao) (*payment.Payment, error) {
	amount, err := decimal.NewFromString(dao.Amount)
	if err != nil {
		return nil, err
	}

	pmt := &payment.Payment{
		ID:          dao.ID,
		UserID:      dao.UserID,
		Category:    dao.Category,
		Amount:      amount,
		Currency:    dao.Currency,
		Status:      payment.Status(dao.Status),
		GatewayRef:  dao.GatewayRef,
		TxHash:      dao.TxHash,
		CreatedAt:   dao.CreatedAt,
		CompletedAt: dao.CompletedAt,
	}

	return pmt, nil
}
