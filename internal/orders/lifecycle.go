package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/internal/webhooks"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"gorm.io/gorm"
)

// Lifecycle advances orders through
// pending -> processing -> shipped -> {delivered|failed}. Transitions are
// driven by persisted order_advance tasks, so the chain survives restarts
// and an order is never stranded by a lost timer.
type Lifecycle struct {
	repo       *Repository
	tx         txRunner
	tasks      tasks.Service
	dispatcher webhooks.Dispatcher
	audit      audit.Recorder
	logg       *logger.Logger
	cfg        config.LifecycleConfig
	rng        func() float64
	now        func() time.Time
}

// NewLifecycle builds the lifecycle engine.
func NewLifecycle(
	repo *Repository,
	tx txRunner,
	taskSvc tasks.Service,
	dispatcher webhooks.Dispatcher,
	recorder audit.Recorder,
	logg *logger.Logger,
	cfg config.LifecycleConfig,
) (*Lifecycle, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if taskSvc == nil {
		return nil, fmt.Errorf("task service required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("webhook dispatcher required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Lifecycle{
		repo:       repo,
		tx:         tx,
		tasks:      taskSvc,
		dispatcher: dispatcher,
		audit:      recorder,
		logg:       logg,
		cfg:        cfg,
		rng:        rand.Float64,
		now:        time.Now,
	}, nil
}

// Advance performs one status transition. Orders already in a terminal
// state are left untouched; the call is an idempotent no-op.
func (l *Lifecycle) Advance(ctx context.Context, orderID string) error {
	order, err := l.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status.IsTerminal() {
		l.logg.Info(l.logg.WithOrderID(ctx, orderID), "order already terminal, skipping transition")
		return nil
	}

	next, delay := l.nextStage(order.Status)

	err = l.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := l.repo.WithTx(tx).UpdateStatus(ctx, orderID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if next.IsTerminal() {
			return nil
		}
		_, err := l.tasks.ScheduleTx(ctx, tx, tasks.ScheduleInput{
			Name:         fmt.Sprintf("advance %s", orderID),
			Type:         enums.TaskTypeOrderAdvance,
			TargetID:     orderID,
			ScheduledFor: l.now().Add(delay),
		})
		return err
	})
	if err != nil {
		return err
	}

	l.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeWebhook,
		Action:       enums.AuditActionUpdate,
		Message:      fmt.Sprintf("Order %s status changed: %s -> %s", orderID, order.Status, next),
		ResourceType: "order",
		ResourceID:   orderID,
		Details:      map[string]any{"from": order.Status.String(), "to": next.String()},
	})
	l.dispatcher.Trigger(ctx, enums.WebhookEventOrderStatus, map[string]any{
		"order_id": orderID,
		"from":     order.Status.String(),
		"to":       next.String(),
	})
	return nil
}

// nextStage maps the current status to its successor and the delay before
// the following hop. The terminal stage draws delivered vs failed at the
// configured rate.
func (l *Lifecycle) nextStage(current enums.OrderStatus) (enums.OrderStatus, time.Duration) {
	switch current {
	case enums.OrderStatusPending:
		return enums.OrderStatusProcessing, l.cfg.ShippingDelay
	case enums.OrderStatusProcessing:
		return enums.OrderStatusShipped, l.cfg.DeliveryDelay
	default:
		if l.rng() < l.cfg.DeliveredRate {
			return enums.OrderStatusDelivered, 0
		}
		return enums.OrderStatusFailed, 0
	}
}
