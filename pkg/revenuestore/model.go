package revenuestore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
)

// StakeholderDao is a data access object that maps directly to the 'stakeholders' table in PostgreSQL.
type StakeholderDao struct {
	bun.BaseModel `bun:"table:stakeholders,alias:s"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Wallet        string    `bun:"wallet,unique,notnull,type:varchar(255)"`
	Share         string    `bun:"share,notnull,type:numeric(5,2)"`
	Category      string    `bun:"category,notnull,type:varchar(64)"`
	Active        bool      `bun:"active,notnull,default:true"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// toStakeholder converts a StakeholderDao to revenue.StakeholderEntry.
func toStakeholder(dao *StakeholderDao) (*revenue.StakeholderEntry, error) {
	share, err := decimal.NewFromString(dao.Share)
	if err != nil {
		return nil, err
	}

	return &revenue.StakeholderEntry{
		ID:       dao.ID,
		Wallet:   dao.Wallet,
		Share:    share,
		Category: dao.Category,
		Active:   dao.Active,
	}, nil
}

// DistributionDao is a data access object that maps directly to the 'distributions' table in PostgreSQL.
type DistributionDao struct {
	bun.BaseModel `bun:"table:distributions,alias:d"`
	ID            string    `bun:"id,pk,type:uuid"`
	PaymentID     string    `bun:"payment_id,notnull,type:uuid"`
	Wallet        string    `bun:"wallet,notnull,type:varchar(255)"`
	Amount        string    `bun:"amount,notnull,type:numeric(38,18)"`
	Category      string    `bun:"category,notnull,type:varchar(64)"`
	Status        string    `bun:"status,notnull,type:varchar(32)"`
	TransferRef   *string   `bun:"transfer_ref,type:varchar(255)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// toDistributionDao converts a revenue.Distribution to DistributionDao.
func toDistributionDao(dist *revenue.Distribution) *DistributionDao {
	return &DistributionDao{
		ID:          dist.ID,
		PaymentID:   dist.PaymentID,
		Wallet:      dist.Wallet,
		Amount:      dist.Amount.String(),
		Category:    dist.Category,
		Status:      string(dist.Status),
		TransferRef: dist.TransferRef,
		CreatedAt:   dist.CreatedAt,
		UpdatedAt:   dist.UpdatedAt,
	}
}

// toDistribution converts a DistributionDao to revenue.Distribution.
func toDistribution(dao *DistributionDao) (*revenue.Distribution, error) {
	amount, err := decimal.NewFromString(dao.Amount)
	if err != nil {
		return nil, err
	}

	return &revenue.Distribution{
		ID:          dao.ID,
		PaymentID:   dao.PaymentID,
		Wallet:      dao.Wallet,
		Amount:      amount,
		Category:    dao.Category,
		Status:      revenue.DistributionStatus(dao.Status),
		TransferRef: dao.TransferRef,
		CreatedAt:   dao.CreatedAt,
		UpdatedAt:   dao.UpdatedAt,
	}, nil
}
