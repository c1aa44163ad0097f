package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aureusmetals/aureus-backend/pkg/enums"
)

// ScheduledTask is a persisted one-shot task executed by the cron worker
// once its scheduled_for timestamp has passed.
type ScheduledTask struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Type         enums.TaskType   `gorm:"column:type;not null"`
	TargetID     string           `gorm:"column:target_id;not null"`
	Payload      map[string]any   `gorm:"column:payload;serializer:json"`
	ScheduledFor time.Time        `gorm:"column:scheduled_for;not null;index"`
	Status       enums.TaskStatus `gorm:"column:status;not null;default:'pending';index"`
	LastError    *string          `gorm:"column:last_error"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
