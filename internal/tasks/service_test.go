package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	dsn := "file:tasks_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.ScheduledTask{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewRepository(db)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, db
}

func TestScheduleDefaultsName(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	task, err := svc.Schedule(context.Background(), ScheduleInput{
		Type:         enums.TaskTypeContentSwap,
		TargetID:     "hero",
		Payload:      map[string]any{"content": "sale"},
		ScheduledFor: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if task.Name != "content_swap hero" {
		t.Fatalf("unexpected default name %q", task.Name)
	}
	if task.Status != enums.TaskStatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name  string
		input ScheduleInput
	}{
		{"bad type", ScheduleInput{Type: "nonsense", TargetID: "x", ScheduledFor: future}},
		{"missing target", ScheduleInput{Type: enums.TaskTypeContentSwap, ScheduledFor: future}},
		{"missing time", ScheduleInput{Type: enums.TaskTypeContentSwap, TargetID: "x"}},
	}
	for _, tc := range cases {
		_, err := svc.Schedule(ctx, tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestListDueSkipsFutureAndNonPending(t *testing.T) {
	t.Parallel()
	_, repo, db := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	rows := []models.ScheduledTask{
		{ID: uuid.New(), Name: "due", Type: enums.TaskTypeContentSwap, TargetID: "hero", ScheduledFor: now.Add(-time.Minute), Status: enums.TaskStatusPending},
		{ID: uuid.New(), Name: "future", Type: enums.TaskTypeContentSwap, TargetID: "hero", ScheduledFor: now.Add(time.Hour), Status: enums.TaskStatusPending},
		{ID: uuid.New(), Name: "done", Type: enums.TaskTypeContentSwap, TargetID: "hero", ScheduledFor: now.Add(-time.Hour), Status: enums.TaskStatusCompleted},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	due, err := repo.ListDue(ctx, now)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].Name != "due" {
		t.Fatalf("unexpected due set %+v", due)
	}
}

func TestMarkFailedRecordsCause(t *testing.T) {
	t.Parallel()
	svc, repo, db := newTestService(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, ScheduleInput{
		Type:         enums.TaskTypePriceUpdate,
		TargetID:     uuid.NewString(),
		Payload:      map[string]any{"price": "100.00"},
		ScheduledFor: time.Now(),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := repo.MarkFailed(ctx, task.ID, "payload missing price"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	var reloaded models.ScheduledTask
	if err := db.First(&reloaded, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != enums.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", reloaded.Status)
	}
	if reloaded.LastError == nil || *reloaded.LastError != "payload missing price" {
		t.Fatalf("unexpected last error %v", reloaded.LastError)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, target := range []string{"hero", "trust"} {
		if _, err := svc.Schedule(ctx, ScheduleInput{
			Type:         enums.TaskTypeContentSwap,
			TargetID:     target,
			Payload:      map[string]any{"content": "x"},
			ScheduledFor: time.Now().Add(time.Hour),
		}); err != nil {
			t.Fatalf("schedule %s: %v", target, err)
		}
	}

	rows, err := svc.List(ctx, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(rows))
	}
}
