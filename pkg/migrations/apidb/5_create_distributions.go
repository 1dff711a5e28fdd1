package apidb

import (
	"context"
	"log"

	mghelper "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil/migrations"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenuestore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating distributions table...")
		if err := mghelper.CreateSchema(ctx, db, &revenuestore.DistributionDao{}); err != nil {
			return err
		}
		// Idempotency checks and payout listings filter on payment_id
		return mghelper.CreateModelIndexes(ctx, db, &revenuestore.DistributionDao{}, "payment_id", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping distributions table...")
		return mghelper.DropTables(ctx, db, &revenuestore.DistributionDao{})
	})
}
