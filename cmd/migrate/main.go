package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/internal/seed"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/db"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.AutoMigrate(context.Background(), logg); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedDemoData {
		catalogRepo := catalog.NewRepository(dbClient.DB())
		cmsRepo := cms.NewRepository(dbClient.DB())
		if err := seed.Run(context.Background(), catalogRepo, cmsRepo, logg); err != nil {
			logg.Error(context.Background(), "failed to seed demo data", err)
			os.Exit(1)
		}
	}

	logg.Info(context.Background(), "migration complete")
}
