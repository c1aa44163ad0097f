package audit

import (
	"context"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists audit log entries.
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

// Insert appends a new audit entry.
func (r *Repository) Insert(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// TrimTo deletes everything but the newest keep entries.
func (r *Repository) TrimTo(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM audit_logs WHERE id NOT IN (
			SELECT id FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep,
	).Error
}

// List returns entries newest first, optionally filtered by type.
func (r *Repository) List(ctx context.Context, params pagination.Params, typeFilter *enums.AuditType) ([]models.AuditLog, error) {
	params = pagination.Normalize(params)
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Offset(params.Offset)
	if typeFilter != nil {
		query = query.Where("type = ?", *typeFilter)
	}
	var entries []models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes every audit entry.
func (r *Repository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM audit_logs`).Error
}
