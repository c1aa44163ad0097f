package catalog

import "github.com/shopspring/decimal"

// VariantInput holds the validated payload for one product variant.
type VariantInput struct {
	SKU               string
	Name              string
	Weight            string
	Purity            string
	Mint              string
	Year              int
	Price             decimal.Decimal
	Stock             int
	LowStockThreshold int
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title          string
	Description    string
	Categories     []string
	Tags           []string
	Images         []string
	SEOTitle       *string
	SEODescription *string
	Variants       []VariantInput
}

// UpdateProductInput holds optional mutation values for a product. Nil fields
// are left untouched; a non-nil Variants slice replaces the variant set.
type UpdateProductInput struct {
	Title          *string
	Description    *string
	Categories     *[]string
	Tags           *[]string
	Images         *[]string
	SEOTitle       *string
	SEODescription *string
	Variants       *[]VariantInput
}
