package seo

import (
	"testing"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestProductJSONLD(t *testing.T) {
	t.Parallel()
	product := &models.Product{
		ID:          uuid.New(),
		Title:       "PAMP Suisse Gold Bar",
		Slug:        "pamp-suisse-gold-bar",
		Description: "Cast gold bar with assay certificate.",
		Images:      []string{"https://cdn.aureusmetals.com/pamp.jpg"},
		Variants: []models.Variant{
			{SKU: "PAMP-1OZ", Name: "1 oz", Price: decimal.RequireFromString("2410.00"), Stock: 4},
			{SKU: "PAMP-10G", Name: "10 g", Price: decimal.RequireFromString("815.50"), Stock: 0},
		},
	}

	doc := ProductJSONLD(product, "https://aureusmetals.com/", "Aureus Metals")

	if doc.Context != "https://schema.org" || doc.Type != "Product" {
		t.Fatalf("unexpected document head %+v", doc)
	}
	if doc.Name != "PAMP Suisse Gold Bar" {
		t.Fatalf("unexpected name %q", doc.Name)
	}
	if doc.Brand.Name != "Aureus Metals" {
		t.Fatalf("unexpected brand %+v", doc.Brand)
	}
	if len(doc.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(doc.Offers))
	}
	first := doc.Offers[0]
	if first.Price != "2410.00" || first.PriceCurrency != "USD" {
		t.Fatalf("unexpected offer pricing %+v", first)
	}
	if first.Availability != "https://schema.org/InStock" {
		t.Fatalf("unexpected availability %q", first.Availability)
	}
	if first.URL != "https://aureusmetals.com/products/pamp-suisse-gold-bar" {
		t.Fatalf("unexpected url %q", first.URL)
	}
	if doc.Offers[1].Availability != "https://schema.org/OutOfStock" {
		t.Fatalf("depleted variant should be out of stock")
	}
}

func TestProductJSONLDHonorsSEOOverrides(t *testing.T) {
	t.Parallel()
	seoTitle := "Buy PAMP Gold Bars Online"
	seoDescription := "Best prices on Swiss gold bars."
	product := &models.Product{
		ID:             uuid.New(),
		Title:          "PAMP Suisse Gold Bar",
		Slug:           "pamp-suisse-gold-bar",
		Description:    "Cast gold bar.",
		SEOTitle:       &seoTitle,
		SEODescription: &seoDescription,
	}

	doc := ProductJSONLD(product, "https://aureusmetals.com", "Aureus Metals")

	if doc.Name != seoTitle {
		t.Fatalf("expected seo title, got %q", doc.Name)
	}
	if doc.Description != seoDescription {
		t.Fatalf("expected seo description, got %q", doc.Description)
	}
}
