package apidb

import (
	"context"
	"log"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysisstore"
	mghelper "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating analyses table...")
		if err := mghelper.CreateSchema(ctx, db, &analysisstore.AnalysisDao{}); err != nil {
			return err
		}
		// Create indexes
		return mghelper.CreateModelIndexes(ctx, db, &analysisstore.AnalysisDao{}, "user_id", "status", "payment_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping analyses table...")
		return mghelper.DropTables(ctx, db, &analysisstore.AnalysisDao{})
	})
}
