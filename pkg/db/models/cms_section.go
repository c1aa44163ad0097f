package models

import (
	"time"

	"github.com/google/uuid"
)

// CmsSection is a keyed content block editable by admins and content_swap tasks.
type CmsSection struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Key       string    `gorm:"column:key;not null;uniqueIndex"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
