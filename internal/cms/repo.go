package cms

import (
	"context"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists keyed CMS content blocks.
type Repository struct {
	db *gorm.DB
}

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

// FindByKey loads one section.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.CmsSection, error) {
	var section models.CmsSection
	err := r.db.WithContext(ctx).First(&section, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// List returns all sections ordered by key.
func (r *Repository) List(ctx context.Context) ([]models.CmsSection, error) {
	var rows []models.CmsSection
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert inserts the section or overwrites title/content for an existing key.
func (r *Repository) Upsert(ctx context.Context, section *models.CmsSection) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
		}).
		Create(section).Error
}

// UpdateContent overwrites only the content column.
func (r *Repository) UpdateContent(ctx context.Context, key, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CmsSection{}).
		Where("key = ?", key).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
