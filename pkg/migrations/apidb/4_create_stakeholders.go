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
		log.Println("creating stakeholders table...")
		return mghelper.CreateSchema(ctx, db, &revenuestore.StakeholderDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping stakeholders table...")
		return mghelper.DropTables(ctx, db, &revenuestore.StakeholderDao{})
	})
}
