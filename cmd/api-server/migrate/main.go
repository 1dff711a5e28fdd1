package main

import (
	"context"
	"flag"
	"log"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/config"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/migrations/apidb"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil"
	mghelper "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil/migrations"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenuestore"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAPIServer(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	// Connect to database
	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for API Server database (%s)...\n", cfg.Database.Database)

	// Create migrator
	migrator := migrate.NewMigrator(db, apidb.Migrations)

	// Run migrations with args
	args := flag.Args()
	err = mghelper.RunMigrations(migrator, args...)
	if err != nil {
		mghelper.Exitf(err.Error())
	}

	// Configured stakeholders are synced after an "up" so payout shares
	// follow the config file across deployments.
	if len(args) > 0 && args[0] == "up" {
		if err := seedStakeholders(context.Background(), db, cfg.Revenue.Stakeholders); err != nil {
			log.Fatalf("error seeding stakeholders: %s", err.Error())
		}
	}
}

func seedStakeholders(ctx context.Context, db *bun.DB, entries []config.StakeholderConfig) error {
	if len(entries) == 0 {
		return nil
	}

	store := revenuestore.NewStore(db)
	for _, e := range entries {
		share, err := decimal.NewFromString(e.Share)
		if err != nil {
			return err
		}
		if err := store.UpsertStakeholder(ctx, &revenue.StakeholderEntry{
			Wallet:   e.Wallet,
			Share:    share,
			Category: e.Category,
			Active:   e.Active,
		}); err != nil {
			return err
		}
		log.Printf("seeded stakeholder %s (share %s)\n", e.Wallet, share)
	}
	return nil
}
