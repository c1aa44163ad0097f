package seo

import (
	"fmt"
	"strings"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
)

// Offer is a schema.org Offer node, one per purchasable variant.
type Offer struct {
	Type          string `json:"@type"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
	URL           string `json:"url"`
}

// ProductLD is the schema.org Product document embedded in product pages.
type ProductLD struct {
	Context     string  `json:"@context"`
	Type        string  `json:"@type"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Brand       Brand   `json:"brand"`
	Offers      []Offer `json:"offers"`
}

type Brand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// ProductJSONLD builds the structured-data document for one product. SEO
// overrides take precedence over catalog fields when present.
func ProductJSONLD(product *models.Product, baseURL, brandName string) ProductLD {
	base := strings.TrimRight(baseURL, "/")
	url := fmt.Sprintf("%s/products/%s", base, product.Slug)

	name := product.Title
	if product.SEOTitle != nil && *product.SEOTitle != "" {
		name = *product.SEOTitle
	}
	description := product.Description
	if product.SEODescription != nil && *product.SEODescription != "" {
		description = *product.SEODescription
	}
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	doc := ProductLD{
		Context:     "https://schema.org",
		Type:        "Product",
		Name:        name,
		Description: description,
		Image:       image,
		Brand:       Brand{Type: "Brand", Name: brandName},
		Offers:      make([]Offer, 0, len(product.Variants)),
	}
	for _, variant := range product.Variants {
		availability := "https://schema.org/InStock"
		if variant.Stock <= 0 {
			availability = "https://schema.org/OutOfStock"
		}
		doc.Offers = append(doc.Offers, Offer{
			Type:          "Offer",
			SKU:           variant.SKU,
			Name:          variant.Name,
			Price:         variant.Price.StringFixed(2),
			PriceCurrency: "USD",
			Availability:  availability,
			URL:           url,
		})
	}
	return doc
}
