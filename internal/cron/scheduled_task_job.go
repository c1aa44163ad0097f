package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/internal/orders"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// ScheduledTaskJob drains due tasks each cycle. Every task is executed
// independently; a failure marks that task failed and the cycle moves on.
type ScheduledTaskJob struct {
	tasks     *tasks.Repository
	catalog   *catalog.Repository
	cms       cms.Service
	lifecycle *orders.Lifecycle
	audit     audit.Recorder
	logg      *logger.Logger
	now       func() time.Time
}

func NewScheduledTaskJob(
	taskRepo *tasks.Repository,
	catalogRepo *catalog.Repository,
	cmsSvc cms.Service,
	lifecycle *orders.Lifecycle,
	recorder audit.Recorder,
	logg *logger.Logger,
) (*ScheduledTaskJob, error) {
	if taskRepo == nil {
		return nil, fmt.Errorf("task repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cmsSvc == nil {
		return nil, fmt.Errorf("cms service required")
	}
	if lifecycle == nil {
		return nil, fmt.Errorf("order lifecycle required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &ScheduledTaskJob{
		tasks:     taskRepo,
		catalog:   catalogRepo,
		cms:       cmsSvc,
		lifecycle: lifecycle,
		audit:     recorder,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (j *ScheduledTaskJob) Name() string { return "scheduled_tasks" }

func (j *ScheduledTaskJob) Run(ctx context.Context) error {
	due, err := j.tasks.ListDue(ctx, j.now())
	if err != nil {
		return fmt.Errorf("list due tasks: %w", err)
	}

	var errs error
	for _, task := range due {
		taskCtx := j.logg.WithFields(ctx, map[string]any{
			"task_id":   task.ID.String(),
			"task_type": task.Type.String(),
		})

		if execErr := j.execute(taskCtx, task); execErr != nil {
			j.logg.Error(taskCtx, "scheduled task failed", execErr)
			if markErr := j.tasks.MarkFailed(ctx, task.ID, execErr.Error()); markErr != nil {
				errs = multierr.Append(errs, fmt.Errorf("mark task %s failed: %w", task.ID, markErr))
			}
			j.audit.Record(ctx, audit.Entry{
				Type:         enums.AuditTypeCron,
				Action:       enums.AuditActionFailure,
				Message:      fmt.Sprintf("Task %q failed: %s", task.Name, execErr.Error()),
				ResourceType: "scheduled_task",
				ResourceID:   task.ID.String(),
			})
			errs = multierr.Append(errs, fmt.Errorf("task %s: %w", task.ID, execErr))
			continue
		}

		if markErr := j.tasks.MarkCompleted(ctx, task.ID); markErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("mark task %s completed: %w", task.ID, markErr))
			continue
		}
		j.audit.Record(ctx, audit.Entry{
			Type:         enums.AuditTypeCron,
			Action:       enums.AuditActionExecute,
			Message:      fmt.Sprintf("Task %q executed", task.Name),
			ResourceType: "scheduled_task",
			ResourceID:   task.ID.String(),
		})
	}
	return errs
}

func (j *ScheduledTaskJob) execute(ctx context.Context, task models.ScheduledTask) error {
	switch task.Type {
	case enums.TaskTypePriceUpdate:
		return j.executePriceUpdate(ctx, task)
	case enums.TaskTypeContentSwap:
		return j.executeContentSwap(ctx, task)
	case enums.TaskTypeOrderAdvance:
		return j.lifecycle.Advance(ctx, task.TargetID)
	default:
		return fmt.Errorf("unknown task type %q", task.Type)
	}
}

func (j *ScheduledTaskJob) executePriceUpdate(ctx context.Context, task models.ScheduledTask) error {
	variantID, err := uuid.Parse(task.TargetID)
	if err != nil {
		return fmt.Errorf("target id is not a variant id: %w", err)
	}
	raw, ok := task.Payload["price"]
	if !ok {
		return fmt.Errorf("payload missing price")
	}
	price, err := decimal.NewFromString(fmt.Sprintf("%v", raw))
	if err != nil {
		return fmt.Errorf("invalid price %v: %w", raw, err)
	}
	if price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	return j.catalog.UpdateVariantPrice(ctx, variantID, price)
}

func (j *ScheduledTaskJob) executeContentSwap(ctx context.Context, task models.ScheduledTask) error {
	raw, ok := task.Payload["content"]
	if !ok {
		return fmt.Errorf("payload missing content")
	}
	content, ok := raw.(string)
	if !ok {
		return fmt.Errorf("content must be a string")
	}
	return j.cms.SwapContent(ctx, task.TargetID, content)
}
