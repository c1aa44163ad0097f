package cms

import (
	"context"
	"errors"
	"fmt"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateInput carries the editable fields of a section.
type UpdateInput struct {
	Title   *string
	Content *string
}

// Service exposes CMS section reads and writes. Sections are also the
// target of content_swap scheduled tasks.
type Service interface {
	Get(ctx context.Context, key string) (*models.CmsSection, error)
	List(ctx context.Context) ([]models.CmsSection, error)
	Update(ctx context.Context, key string, input UpdateInput) (*models.CmsSection, error)
	SwapContent(ctx context.Context, key, content string) error
}

type service struct {
	repo  *Repository
	audit audit.Recorder
}

func NewService(repo *Repository, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cms repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) Get(ctx context.Context, key string) (*models.CmsSection, error) {
	section, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cms section %q not found", key)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cms section")
	}
	return section, nil
}

func (s *service) List(ctx context.Context) ([]models.CmsSection, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cms sections")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, key string, input UpdateInput) (*models.CmsSection, error) {
	section, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		section.Title = *input.Title
	}
	if input.Content != nil {
		section.Content = *input.Content
	}
	if err := s.repo.Upsert(ctx, section); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cms section")
	}
	s.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeCMS,
		Action:       enums.AuditActionUpdate,
		Message:      fmt.Sprintf("CMS section %q updated", key),
		ResourceType: "cms_section",
		ResourceID:   key,
	})
	return section, nil
}

// SwapContent overwrites a section's content. Used by the scheduled-task
// executor for content_swap tasks.
func (s *service) SwapContent(ctx context.Context, key, content string) error {
	if err := s.repo.UpdateContent(ctx, key, content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "cms section %q not found", key)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "swap cms content")
	}
	s.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeCMS,
		Action:       enums.AuditActionUpdate,
		Message:      fmt.Sprintf("CMS section %q content swapped", key),
		ResourceType: "cms_section",
		ResourceID:   key,
	})
	return nil
}

// Seed inserts the default storefront sections when they are absent.
func Seed(ctx context.Context, repo *Repository) error {
	defaults := []models.CmsSection{
		{Key: "hero", Title: "Invest in Real Metal", Content: "Gold and silver bullion at transparent prices, shipped insured."},
		{Key: "trust", Title: "Why Aureus", Content: "Every bar and coin is sourced from accredited mints and verified on arrival."},
		{Key: "shipping", Title: "Shipping & Insurance", Content: "Fully insured delivery with signature confirmation on all orders."},
	}
	for _, section := range defaults {
		if _, err := repo.FindByKey(ctx, section.Key); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		section.ID = uuid.New()
		if err := repo.Upsert(ctx, &section); err != nil {
			return err
		}
	}
	return nil
}
