package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/db"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/redis"
)

const readinessTimeout = 5 * time.Second

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady checks the database and Redis before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if err := database.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}

		if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
			logg.Warn(r.Context(), "readiness check failed")
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": map[bool]string{true: "ready", false: "degraded"}[healthy],
			"env":    cfg.App.Env,
			"checks": checks,
		})
	}
}
