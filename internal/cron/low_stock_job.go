package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/webhooks"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

// lowStockStore is the Redis surface the job uses for notify dedupe.
type lowStockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	LowStockNotifyKey() string
}

// LowStockJob scans for variants at or below their threshold and emits one
// alert per notify interval. The Redis TTL key keeps repeated cycles from
// re-alerting while the condition persists.
type LowStockJob struct {
	catalog        *catalog.Repository
	store          lowStockStore
	audit          audit.Recorder
	dispatcher     webhooks.Dispatcher
	logg           *logger.Logger
	notifyInterval time.Duration
}

func NewLowStockJob(
	catalogRepo *catalog.Repository,
	store lowStockStore,
	recorder audit.Recorder,
	dispatcher webhooks.Dispatcher,
	logg *logger.Logger,
	notifyInterval time.Duration,
) (*LowStockJob, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("webhook dispatcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if notifyInterval <= 0 {
		notifyInterval = time.Hour
	}
	return &LowStockJob{
		catalog:        catalogRepo,
		store:          store,
		audit:          recorder,
		dispatcher:     dispatcher,
		logg:           logg,
		notifyInterval: notifyInterval,
	}, nil
}

func (j *LowStockJob) Name() string { return "low_stock_scan" }

func (j *LowStockJob) Run(ctx context.Context) error {
	variants, err := j.catalog.ListLowStockVariants(ctx)
	if err != nil {
		return fmt.Errorf("list low stock variants: %w", err)
	}
	if len(variants) == 0 {
		return nil
	}

	acquired, err := j.store.SetNX(ctx, j.store.LowStockNotifyKey(), time.Now().UTC().Format(time.RFC3339), j.notifyInterval)
	if err != nil {
		return fmt.Errorf("low stock notify dedupe: %w", err)
	}
	if !acquired {
		j.logg.Info(ctx, "low stock alert already sent within notify interval")
		return nil
	}

	skus := make([]string, 0, len(variants))
	items := make([]map[string]any, 0, len(variants))
	for _, v := range variants {
		skus = append(skus, v.SKU)
		items = append(items, map[string]any{
			"sku":       v.SKU,
			"product":   v.ProductTitle,
			"variant":   v.VariantName,
			"stock":     v.Stock,
			"threshold": v.Threshold,
		})
	}

	j.audit.Record(ctx, audit.Entry{
		Type:    enums.AuditTypeStock,
		Action:  enums.AuditActionAlert,
		Message: fmt.Sprintf("Low stock: %s", strings.Join(skus, ", ")),
		Details: map[string]any{"variants": items},
	})
	j.dispatcher.Trigger(ctx, enums.WebhookEventLowStock, map[string]any{"variants": items})
	return nil
}
