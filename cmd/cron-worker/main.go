package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/internal/cron"
	"github.com/aureusmetals/aureus-backend/internal/feeds"
	"github.com/aureusmetals/aureus-backend/internal/orders"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/internal/webhooks"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/db"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/metrics"
	"github.com/aureusmetals/aureus-backend/pkg/redis"
)

const lockKeyFormat = "aureus:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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
	lifecycle, err := orders.NewLifecycle(ordersRepo, dbClient, taskSvc, webhookSvc, auditSvc, logg, cfg.Lifecycle)
	if err != nil {
		logg.Error(context.Background(), "failed to create order lifecycle", err)
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

	lowStockJob, err := cron.NewLowStockJob(catalogRepo, redisClient, auditSvc, webhookSvc, logg, cfg.Inventory.LowStockNotifyInterval)
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}
	feedRefreshJob, err := cron.NewFeedRefreshJob(feedSvc, redisClient, logg, cfg.Feeds.RefreshInterval)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed refresh job", err)
		os.Exit(1)
	}
	scheduledTaskJob, err := cron.NewScheduledTaskJob(taskRepo, catalogRepo, cmsSvc, lifecycle, auditSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduled task job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(scheduledTaskJob, lowStockJob, feedRefreshJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	go serveMetrics(ctx, logg)

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(ctx context.Context, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := ":" + envOr("METRICS_PORT", "9090")
	logg.Info(logg.WithField(ctx, "addr", addr), "serving cron metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
