package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleInput carries the fields needed to enqueue a task.
type ScheduleInput struct {
	Name         string
	Type         enums.TaskType
	TargetID     string
	Payload      map[string]any
	ScheduledFor time.Time
}

// Service validates and enqueues scheduled tasks.
type Service interface {
	Schedule(ctx context.Context, input ScheduleInput) (*models.ScheduledTask, error)
	ScheduleTx(ctx context.Context, tx *gorm.DB, input ScheduleInput) (*models.ScheduledTask, error)
	List(ctx context.Context, params pagination.Params) ([]models.ScheduledTask, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a task service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("task repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Schedule(ctx context.Context, input ScheduleInput) (*models.ScheduledTask, error) {
	return s.schedule(ctx, s.repo, input)
}

// ScheduleTx enqueues within an open transaction so a task is only visible
// once the surrounding business mutation commits.
func (s *service) ScheduleTx(ctx context.Context, tx *gorm.DB, input ScheduleInput) (*models.ScheduledTask, error) {
	return s.schedule(ctx, s.repo.WithTx(tx), input)
}

func (s *service) schedule(ctx context.Context, repo *Repository, input ScheduleInput) (*models.ScheduledTask, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid task type %q", input.Type)
	}
	if input.TargetID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target id required")
	}
	if input.ScheduledFor.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_for required")
	}
	name := input.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", input.Type, input.TargetID)
	}
	task := &models.ScheduledTask{
		ID:           uuid.New(),
		Name:         name,
		Type:         input.Type,
		TargetID:     input.TargetID,
		Payload:      input.Payload,
		ScheduledFor: input.ScheduledFor.UTC(),
		Status:       enums.TaskStatusPending,
	}
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scheduled task")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.ScheduledTask, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scheduled tasks")
	}
	return rows, nil
}
