package catalog

import (
	"context"
	"testing"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/google/uuid"
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Variant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *Repository, *stubRecorder) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	recorder := &stubRecorder{}
	svc, err := NewService(repo, recorder)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, recorder
}

func goldBarInput(title string) CreateProductInput {
	return CreateProductInput{
		Title:       title,
		Description: "One troy ounce of .9999 fine gold.",
		Categories:  []string{"Gold", "Bars"},
		Variants: []VariantInput{
			{SKU: "AU-" + uuid.NewString()[:8], Name: "1 oz", Price: decimal.RequireFromString("2400.00"), Stock: 10},
		},
	}
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	t.Parallel()
	svc, _, recorder := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, goldBarInput("Gold Bar 1oz"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.Slug != "gold-bar-1oz" {
		t.Fatalf("unexpected slug %q", product.Slug)
	}
	if len(product.Variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(product.Variants))
	}
	if product.Variants[0].LowStockThreshold != 5 {
		t.Fatalf("expected default threshold 5, got %d", product.Variants[0].LowStockThreshold)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorder.entries))
	}
}

func TestCreateProductSuffixesDuplicateSlug(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, goldBarInput("Gold Bar"))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateProduct(ctx, goldBarInput("Gold Bar"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.Slug != "gold-bar" || second.Slug != "gold-bar-2" {
		t.Fatalf("unexpected slugs %q and %q", first.Slug, second.Slug)
	}
}

func TestUpdateProductReplacesVariants(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, goldBarInput("Silver Round"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	variants := []VariantInput{
		{SKU: "AG-1OZ", Name: "1 oz", Price: decimal.RequireFromString("34.00"), Stock: 100},
		{SKU: "AG-5OZ", Name: "5 oz", Price: decimal.RequireFromString("165.00"), Stock: 40},
	}
	title := "Silver Round Premium"
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{
		Title:    &title,
		Variants: &variants,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("unexpected title %q", updated.Title)
	}
	if updated.Slug != "silver-round-premium" {
		t.Fatalf("unexpected slug %q", updated.Slug)
	}
	if len(updated.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(updated.Variants))
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProductCascades(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, goldBarInput("Platinum Coin"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); err == nil {
		t.Fatal("expected product to be gone")
	}
	if _, err := repo.FindVariantBySKU(ctx, product.Variants[0].SKU); err == nil {
		t.Fatal("expected variants to be gone")
	}
}

func TestListLowStockVariants(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	input := goldBarInput("Gold Sovereign")
	input.Variants = []VariantInput{
		{SKU: "SOV-LOW", Name: "1 oz", Price: decimal.RequireFromString("600.00"), Stock: 2, LowStockThreshold: 5},
		{SKU: "SOV-OK", Name: "1/2 oz", Price: decimal.RequireFromString("310.00"), Stock: 50, LowStockThreshold: 5},
	}
	if _, err := svc.CreateProduct(ctx, input); err != nil {
		t.Fatalf("create: %v", err)
	}

	low, err := repo.ListLowStockVariants(ctx)
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(low) != 1 {
		t.Fatalf("expected 1 low stock variant, got %d", len(low))
	}
	if low[0].SKU != "SOV-LOW" || low[0].ProductTitle != "Gold Sovereign" {
		t.Fatalf("unexpected row %+v", low[0])
	}
}
