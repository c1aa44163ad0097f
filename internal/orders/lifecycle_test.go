package orders

import (
	"context"
	"testing"

	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubDispatcher struct {
	events   []enums.WebhookEvent
	payloads []map[string]any
}

func (s *stubDispatcher) Trigger(_ context.Context, event enums.WebhookEvent, payload map[string]any) {
	s.events = append(s.events, event)
	s.payloads = append(s.payloads, payload)
}

func newTestLifecycle(t *testing.T, env *orderTestEnv) (*Lifecycle, *stubDispatcher) {
	t.Helper()
	taskSvc, err := tasks.NewService(tasks.NewRepository(env.db))
	if err != nil {
		t.Fatalf("task service: %v", err)
	}
	dispatcher := &stubDispatcher{}
	lifecycle, err := NewLifecycle(env.repo, gormTx{db: env.db}, taskSvc, dispatcher, env.recorder, testLogger(), testLifecycleConfig())
	if err != nil {
		t.Fatalf("lifecycle: %v", err)
	}
	return lifecycle, dispatcher
}

func (e *orderTestEnv) seedOrder(t *testing.T, id string, status enums.OrderStatus) {
	t.Helper()
	order := &models.Order{
		ID:              id,
		CustomerEmail:   "buyer@example.com",
		ShippingAddress: "1 Bullion Way, Zurich",
		ShippingOption:  "insured",
		Total:           decimal.RequireFromString("100.00"),
		Status:          status,
	}
	if err := e.db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestAdvancePendingSchedulesNextHop(t *testing.T) {
	t.Parallel()
	env := newOrderTestEnv(t)
	lifecycle, dispatcher := newTestLifecycle(t, env)
	ctx := context.Background()

	env.seedOrder(t, "ORD-000001", enums.OrderStatusPending)
	if err := lifecycle.Advance(ctx, "ORD-000001"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	order, err := env.repo.FindByID(ctx, "ORD-000001")
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.Status)
	}

	var scheduled []models.ScheduledTask
	if err := env.db.Find(&scheduled).Error; err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(scheduled) != 1 || scheduled[0].Type != enums.TaskTypeOrderAdvance {
		t.Fatalf("expected one order_advance task, got %+v", scheduled)
	}

	if len(dispatcher.events) != 1 || dispatcher.events[0] != enums.WebhookEventOrderStatus {
		t.Fatalf("expected order_status webhook, got %+v", dispatcher.events)
	}
	payload := dispatcher.payloads[0]
	if payload["from"] != "pending" || payload["to"] != "processing" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestAdvanceShippedDrawsTerminalOutcome(t *testing.T) {
	t.Parallel()
	env := newOrderTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		id   string
		draw float64
		want enums.OrderStatus
	}{
		{"delivered", "ORD-000010", 0.1, enums.OrderStatusDelivered},
		{"failed", "ORD-000011", 0.95, enums.OrderStatusFailed},
	}
	for _, tc := range cases {
		lifecycle, _ := newTestLifecycle(t, env)
		lifecycle.rng = func() float64 { return tc.draw }

		env.seedOrder(t, tc.id, enums.OrderStatusShipped)
		if err := lifecycle.Advance(ctx, tc.id); err != nil {
			t.Fatalf("%s: advance: %v", tc.name, err)
		}
		order, err := env.repo.FindByID(ctx, tc.id)
		if err != nil {
			t.Fatalf("%s: reload: %v", tc.name, err)
		}
		if order.Status != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, order.Status)
		}
	}

	// Terminal stages never schedule a further hop.
	var scheduled []models.ScheduledTask
	if err := env.db.Find(&scheduled).Error; err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(scheduled) != 0 {
		t.Fatalf("expected no scheduled tasks, got %+v", scheduled)
	}
}

func TestAdvanceTerminalOrderIsNoOp(t *testing.T) {
	t.Parallel()
	env := newOrderTestEnv(t)
	lifecycle, dispatcher := newTestLifecycle(t, env)
	ctx := context.Background()

	env.seedOrder(t, "ORD-000020", enums.OrderStatusDelivered)
	if err := lifecycle.Advance(ctx, "ORD-000020"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	order, err := env.repo.FindByID(ctx, "ORD-000020")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if order.Status != enums.OrderStatusDelivered {
		t.Fatalf("terminal order mutated to %s", order.Status)
	}
	if len(dispatcher.events) != 0 {
		t.Fatalf("expected no webhooks, got %+v", dispatcher.events)
	}
	if len(env.recorder.entries) != 0 {
		t.Fatalf("expected no audit entries, got %+v", env.recorder.entries)
	}
}

func TestAdvanceUnknownOrder(t *testing.T) {
	t.Parallel()
	env := newOrderTestEnv(t)
	lifecycle, _ := newTestLifecycle(t, env)

	err := lifecycle.Advance(context.Background(), "ORD-999999")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
