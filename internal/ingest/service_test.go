package ingest

import (
	"context"
	"io"
	"testing"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubRecorder struct {
	entries []audit.Entry
}

func (s *stubRecorder) Record(_ context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func newTestService(t *testing.T) (*Service, *catalog.Repository, *stubRecorder) {
	t.Helper()
	dsn := "file:ingest_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Variant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := catalog.NewRepository(db)
	recorder := &stubRecorder{}
	logg := logger.New(logger.Options{ServiceName: "ingest-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(repo, recorder, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, recorder
}

func seedVariant(t *testing.T, repo *catalog.Repository, sku string, stock int) {
	t.Helper()
	product := &models.Product{
		ID:    uuid.New(),
		Title: "Seed " + sku,
		Slug:  "seed-" + uuid.NewString(),
		Variants: []models.Variant{{
			ID:    uuid.New(),
			SKU:   sku,
			Name:  "1 oz",
			Price: decimal.RequireFromString("2400.00"),
			Stock: stock,
		}},
	}
	if _, err := repo.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("seed variant: %v", err)
	}
}

func TestImportCSVAppliesValidLinesAndReportsUnknownSKU(t *testing.T) {
	t.Parallel()
	svc, repo, recorder := newTestService(t)
	ctx := context.Background()

	seedVariant(t, repo, "RCM-1OZ", 12)

	result, err := svc.ImportCSV(ctx, "RCM-1OZ, 50\nUNKNOWN-SKU, 10")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 updated, got %d", result.Updated)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Line 2: SKU UNKNOWN-SKU not found" {
		t.Fatalf("unexpected errors %v", result.Errors)
	}

	variant, err := repo.FindVariantBySKU(ctx, "RCM-1OZ")
	if err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if variant.Stock != 50 {
		t.Fatalf("expected stock 50, got %d", variant.Stock)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorder.entries))
	}
}

func TestImportCSVCollectsMalformedLines(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	seedVariant(t, repo, "ASE-1OZ", 5)

	result, err := svc.ImportCSV(ctx, "no-comma-here\nASE-1OZ, abc\nASE-1OZ, -3\n\nASE-1OZ, 7")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 updated, got %d", result.Updated)
	}
	want := []string{
		`Line 1: expected "SKU, Quantity"`,
		`Line 2: invalid quantity "abc"`,
		`Line 3: invalid quantity "-3"`,
	}
	if len(result.Errors) != len(want) {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	for i, msg := range want {
		if result.Errors[i] != msg {
			t.Fatalf("error %d: got %q, want %q", i, result.Errors[i], msg)
		}
	}

	variant, err := repo.FindVariantBySKU(ctx, "ASE-1OZ")
	if err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if variant.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", variant.Stock)
	}
}

func TestImportCSVRejectsEmptyPayload(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.ImportCSV(context.Background(), "   \n  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
