package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing with its purchasable variants.
type Product struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title          string    `gorm:"column:title;not null"`
	Slug           string    `gorm:"column:slug;not null;uniqueIndex"`
	Description    string    `gorm:"column:description"`
	Categories     []string  `gorm:"column:categories;serializer:json"`
	Tags           []string  `gorm:"column:tags;serializer:json"`
	Images         []string  `gorm:"column:images;serializer:json"`
	SEOTitle       *string   `gorm:"column:seo_title"`
	SEODescription *string   `gorm:"column:seo_description"`
	Variants       []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
