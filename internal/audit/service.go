package audit

import (
	"context"
	"fmt"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
)

const defaultAuthor = "system"

// Entry carries the fields callers provide when recording an audit event.
type Entry struct {
	Type         enums.AuditType
	Action       enums.AuditAction
	Message      string
	Author       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
}

// Recorder is the write surface other services depend on.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Service appends audit entries and keeps the table ring-buffered.
type Service struct {
	repo       *Repository
	logg       *logger.Logger
	maxEntries int
}

// NewService builds an audit service.
func NewService(repo *Repository, logg *logger.Logger, maxEntries int) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Service{repo: repo, logg: logg, maxEntries: maxEntries}, nil
}

// Record persists the entry and trims the ring buffer. Audit writes are
// best-effort: failures are logged, never propagated to the business path.
func (s *Service) Record(ctx context.Context, entry Entry) {
	author := entry.Author
	if author == "" {
		author = defaultAuthor
	}
	row := &models.AuditLog{
		ID:      uuid.New(),
		Type:    entry.Type,
		Action:  entry.Action,
		Message: entry.Message,
		Author:  author,
		Details: entry.Details,
	}
	if entry.ResourceType != "" {
		row.ResourceType = &entry.ResourceType
	}
	if entry.ResourceID != "" {
		row.ResourceID = &entry.ResourceID
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.logg.Error(ctx, "failed to write audit entry", err)
		return
	}
	if err := s.repo.TrimTo(ctx, s.maxEntries); err != nil {
		s.logg.Error(ctx, "failed to trim audit log", err)
	}
}

// List returns audit entries newest first.
func (s *Service) List(ctx context.Context, params pagination.Params, typeFilter *enums.AuditType) ([]models.AuditLog, error) {
	return s.repo.List(ctx, params, typeFilter)
}

// Clear wipes the audit trail. Exposed for dev tooling parity.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
