package apidb

import (
	"context"
	"log"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/paymentstore"
	mghelper "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating payments table...")
		if err := mghelper.CreateSchema(ctx, db, &paymentstore.PaymentDao{}); err != nil {
			return err
		}
		// Webhook reconciliation looks payments up by gateway reference
		if err := mghelper.CreateModelUniqueIndexes(ctx, db, &paymentstore.PaymentDao{}, "gateway_ref"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &paymentstore.PaymentDao{}, "user_id", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping payments table...")
		return mghelper.DropTables(ctx, db, &paymentstore.PaymentDao{})
	})
}
