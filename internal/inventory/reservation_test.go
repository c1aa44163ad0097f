package inventory

import (
	"context"
	"testing"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestReserveDecrementsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	variantA := seedVariant(t, db, "AU-A", 5)
	variantB := seedVariant(t, db, "AU-B", 1)

	requests := []ReservationRequest{
		{VariantID: variantA, Qty: 3},
		{VariantID: variantA, Qty: 4},
		{VariantID: variantB, Qty: 1},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := Reserve(ctx, tx, requests)
		if terr != nil {
			return terr
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if !results[0].Reserved {
			t.Fatalf("expected first reservation to succeed")
		}
		if results[1].Reserved {
			t.Fatalf("expected second reservation to be refused")
		}
		if results[1].Remaining != 2 {
			t.Fatalf("expected remaining 2, got %d", results[1].Remaining)
		}
		if !results[2].Reserved {
			t.Fatalf("expected third reservation to succeed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	if got := loadStock(t, db, variantA); got != 2 {
		t.Fatalf("unexpected stock for variant a: %d", got)
	}
	if got := loadStock(t, db, variantB); got != 0 {
		t.Fatalf("unexpected stock for variant b: %d", got)
	}
}

func TestReserveRefusesWithoutMutating(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	variant := seedVariant(t, db, "AU-C", 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := Reserve(ctx, tx, []ReservationRequest{{VariantID: variant, Qty: 5}})
		if terr != nil {
			return terr
		}
		if results[0].Reserved {
			t.Fatal("expected reservation to be refused")
		}
		if results[0].Remaining != 3 {
			t.Fatalf("expected remaining 3, got %d", results[0].Remaining)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	if got := loadStock(t, db, variant); got != 3 {
		t.Fatalf("refused reservation must not change stock, got %d", got)
	}
}

func TestReserveInvalidInputs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	variant := seedVariant(t, db, "AU-D", 5)

	_, err := Reserve(ctx, db, []ReservationRequest{{VariantID: variant, Qty: 0}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = Reserve(ctx, db, []ReservationRequest{{VariantID: uuid.New(), Qty: 1}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	variant := seedVariant(t, db, "AU-E", 2)

	if err := Release(ctx, db, variant, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := loadStock(t, db, variant); got != 5 {
		t.Fatalf("expected stock 5 after release, got %d", got)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reservation_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Variant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedVariant(t *testing.T, db *gorm.DB, sku string, stock int) uuid.UUID {
	t.Helper()
	product := &models.Product{
		ID:    uuid.New(),
		Title: "Test Bar " + sku,
		Slug:  "test-bar-" + sku,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := &models.Variant{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKU:       sku,
		Name:      "1 oz",
		Price:     decimal.RequireFromString("100.00"),
		Stock:     stock,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant.ID
}

func loadStock(t *testing.T, db *gorm.DB, variantID uuid.UUID) int {
	t.Helper()
	var variant models.Variant
	if err := db.First(&variant, "id = ?", variantID).Error; err != nil {
		t.Fatalf("load variant: %v", err)
	}
	return variant.Stock
}
