package seed

import (
	"context"
	"fmt"

	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Run seeds the demo catalog and default CMS sections. Idempotent: when
// products already exist the catalog seed is skipped entirely.
func Run(ctx context.Context, catalogRepo *catalog.Repository, cmsRepo *cms.Repository, logg *logger.Logger) error {
	if err := cms.Seed(ctx, cmsRepo); err != nil {
		return fmt.Errorf("seed cms sections: %w", err)
	}

	existing, err := catalogRepo.AllProducts(ctx)
	if err != nil {
		return fmt.Errorf("check existing catalog: %w", err)
	}
	if len(existing) > 0 {
		logg.Info(ctx, "catalog already populated, skipping demo seed")
		return nil
	}

	for _, product := range demoCatalog() {
		if _, err := catalogRepo.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %q: %w", product.Title, err)
		}
	}
	logg.Info(ctx, "demo catalog seeded")
	return nil
}

func demoCatalog() []*models.Product {
	maple := &models.Product{
		ID:          uuid.New(),
		Title:       "Canadian Gold Maple Leaf",
		Slug:        "canadian-gold-maple-leaf",
		Description: "The Royal Canadian Mint's flagship 24-karat gold bullion coin, struck in .9999 fine gold.",
		Categories:  []string{"Gold", "Coins"},
		Tags:        []string{"gold", "coin", "rcm"},
		Images:      []string{"https://cdn.aureusmetals.com/products/gold-maple-leaf.jpg"},
	}
	maple.Variants = []models.Variant{
		{
			ID:                uuid.New(),
			ProductID:         maple.ID,
			SKU:               "RCM-1OZ",
			Name:              "1 oz",
			Weight:            "1 oz",
			Purity:            ".9999",
			Mint:              "Royal Canadian Mint",
			Year:              2024,
			Price:             decimal.RequireFromString("2389.00"),
			Stock:             12,
			LowStockThreshold: 5,
		},
		{
			ID:                uuid.New(),
			ProductID:         maple.ID,
			SKU:               "RCM-HALF",
			Name:              "1/2 oz",
			Weight:            "1/2 oz",
			Purity:            ".9999",
			Mint:              "Royal Canadian Mint",
			Year:              2024,
			Price:             decimal.RequireFromString("1224.00"),
			Stock:             8,
			LowStockThreshold: 5,
		},
	}

	eagle := &models.Product{
		ID:          uuid.New(),
		Title:       "American Silver Eagle",
		Slug:        "american-silver-eagle",
		Description: "The official silver bullion coin of the United States, one troy ounce of .999 fine silver.",
		Categories:  []string{"Silver", "Coins"},
		Tags:        []string{"silver", "coin", "us-mint"},
		Images:      []string{"https://cdn.aureusmetals.com/products/silver-eagle.jpg"},
	}
	eagle.Variants = []models.Variant{
		{
			ID:                uuid.New(),
			ProductID:         eagle.ID,
			SKU:               "ASE-1OZ",
			Name:              "1 oz",
			Weight:            "1 oz",
			Purity:            ".999",
			Mint:              "United States Mint",
			Year:              2024,
			Price:             decimal.RequireFromString("34.50"),
			Stock:             120,
			LowStockThreshold: 25,
		},
		{
			ID:                uuid.New(),
			ProductID:         eagle.ID,
			SKU:               "ASE-TUBE",
			Name:              "Tube of 20",
			Weight:            "20 oz",
			Purity:            ".999",
			Mint:              "United States Mint",
			Year:              2024,
			Price:             decimal.RequireFromString("668.00"),
			Stock:             15,
			LowStockThreshold: 5,
		},
	}

	bar := &models.Product{
		ID:          uuid.New(),
		Title:       "PAMP Suisse Gold Bar",
		Slug:        "pamp-suisse-gold-bar",
		Description: "Cast and minted gold bars from PAMP Suisse, each sealed in assay-certified packaging.",
		Categories:  []string{"Gold", "Bars"},
		Tags:        []string{"gold", "bar", "pamp"},
		Images:      []string{"https://cdn.aureusmetals.com/products/pamp-gold-bar.jpg"},
	}
	bar.Variants = []models.Variant{
		{
			ID:                uuid.New(),
			ProductID:         bar.ID,
			SKU:               "PAMP-10G",
			Name:              "10 gram",
			Weight:            "10 g",
			Purity:            ".9999",
			Mint:              "PAMP Suisse",
			Year:              2024,
			Price:             decimal.RequireFromString("812.00"),
			Stock:             30,
			LowStockThreshold: 10,
		},
		{
			ID:                uuid.New(),
			ProductID:         bar.ID,
			SKU:               "PAMP-1OZ",
			Name:              "1 oz",
			Weight:            "1 oz",
			Purity:            ".9999",
			Mint:              "PAMP Suisse",
			Year:              2024,
			Price:             decimal.RequireFromString("2441.00"),
			Stock:             4,
			LowStockThreshold: 5,
		},
	}

	return []*models.Product{maple, eagle, bar}
}
