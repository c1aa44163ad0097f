package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aureusmetals/aureus-backend/pkg/enums"
)

// AuditLog is an append-only audit record. The repository ring-buffers the
// table down to a configured cap after each insert.
type AuditLog struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Type         enums.AuditType   `gorm:"column:type;not null;index"`
	Action       enums.AuditAction `gorm:"column:action;not null"`
	Message      string            `gorm:"column:message;not null"`
	Author       string            `gorm:"column:author;not null;default:'system'"`
	ResourceType *string           `gorm:"column:resource_type"`
	ResourceID   *string           `gorm:"column:resource_id"`
	Details      map[string]any    `gorm:"column:details;serializer:json"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}
