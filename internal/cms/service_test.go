package cms

import (
	"context"
	"testing"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubRecorder struct {
	entries []audit.Entry
}

func (s *stubRecorder) Record(_ context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func newTestService(t *testing.T) (Service, *Repository, *stubRecorder) {
	t.Helper()
	dsn := "file:cms_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.CmsSection{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewRepository(db)
	recorder := &stubRecorder{}
	svc, err := NewService(repo, recorder)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, recorder
}

func TestSeedInsertsDefaultsOnce(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	if err := Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sections, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 default sections, got %d", len(sections))
	}

	// Seeding again must not duplicate or overwrite.
	custom := "Custom hero copy"
	if _, err := svc.Update(ctx, "hero", UpdateInput{Content: &custom}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := Seed(ctx, repo); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	hero, err := svc.Get(ctx, "hero")
	if err != nil {
		t.Fatalf("get hero: %v", err)
	}
	if hero.Content != custom {
		t.Fatalf("re-seed overwrote content: %q", hero.Content)
	}
}

func TestUpdateSection(t *testing.T) {
	t.Parallel()
	svc, repo, recorder := newTestService(t)
	ctx := context.Background()

	if err := Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}

	title := "Why Buy From Us"
	section, err := svc.Update(ctx, "trust", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if section.Title != title {
		t.Fatalf("unexpected title %q", section.Title)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Type != enums.AuditTypeCMS {
		t.Fatalf("expected cms audit entry, got %+v", recorder.entries)
	}
}

func TestGetUnknownSection(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != `cms section "missing" not found` {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestSwapContent(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	if err := Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.SwapContent(ctx, "shipping", "Free insured shipping over $500."); err != nil {
		t.Fatalf("swap: %v", err)
	}
	section, err := svc.Get(ctx, "shipping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if section.Content != "Free insured shipping over $500." {
		t.Fatalf("unexpected content %q", section.Content)
	}

	err = svc.SwapContent(ctx, "missing", "nope")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
