package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/aureusmetals/aureus-backend/api/routes"
	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/internal/feeds"
	"github.com/aureusmetals/aureus-backend/internal/ingest"
	"github.com/aureusmetals/aureus-backend/internal/orders"
	"github.com/aureusmetals/aureus-backend/internal/seed"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/internal/webhooks"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/db"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
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

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.AutoMigrate(context.Background(), logg); err != nil {
			logg.Error(context.Background(), "failed to migrate schema", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	auditRepo := audit.NewRepository(dbClient.DB())
	auditSvc, err := audit.NewService(auditRepo, logg, cfg.Audit.MaxEntries)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogSvc, err := catalog.NewService(catalogRepo, auditSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	taskRepo := tasks.NewRepository(dbClient.DB())
	taskSvc, err := tasks.NewService(taskRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create task service", err)
		os.Exit(1)
	}

	webhookSvc, err := webhooks.NewService(cfg.Webhooks, logg, auditSvc, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook dispatcher", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	orderSvc, err := orders.NewService(ordersRepo, catalogRepo, dbClient, taskSvc, auditSvc, cfg.Lifecycle)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	lifecycle, err := orders.NewLifecycle(ordersRepo, dbClient, taskSvc, webhookSvc, auditSvc, logg, cfg.Lifecycle)
	if err != nil {
		logg.Error(context.Background(), "failed to create order lifecycle", err)
		os.Exit(1)
	}

	ingestSvc, err := ingest.NewService(catalogRepo, auditSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest service", err)
		os.Exit(1)
	}

	cmsRepo := cms.NewRepository(dbClient.DB())
	cmsSvc, err := cms.NewService(cmsRepo, auditSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create cms service", err)
		os.Exit(1)
	}

	feedSvc, err := feeds.NewService(catalogRepo, redisClient, cfg.Feeds, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed service", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedDemoData {
		if err := seed.Run(context.Background(), catalogRepo, cmsRepo, logg); err != nil {
			logg.Error(context.Background(), "failed to seed demo data", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Catalog:   catalogSvc,
			Orders:    orderSvc,
			Lifecycle: lifecycle,
			Ingest:    ingestSvc,
			Audit:     auditSvc,
			Tasks:     taskSvc,
			CMS:       cmsSvc,
			Feeds:     feedSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
