package tasks

import (
	"context"
	"time"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists scheduled tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new task.
func (r *Repository) Create(ctx context.Context, task *models.ScheduledTask) (*models.ScheduledTask, error) {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// ListDue returns every pending task whose schedule has passed, oldest first.
func (r *Repository) ListDue(ctx context.Context, now time.Time) ([]models.ScheduledTask, error) {
	var due []models.ScheduledTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", enums.TaskStatusPending, now).
		Order("scheduled_for ASC").
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}

// List returns tasks newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.ScheduledTask, error) {
	params = pagination.Normalize(params)
	var rows []models.ScheduledTask
	err := r.db.WithContext(ctx).
		Order("scheduled_for DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkCompleted transitions the task to completed.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ScheduledTask{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": enums.TaskStatusCompleted, "last_error": nil}).Error
}

// MarkFailed transitions the task to failed and records the error text.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	return r.db.WithContext(ctx).
		Model(&models.ScheduledTask{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": enums.TaskStatusFailed, "last_error": cause}).Error
}
