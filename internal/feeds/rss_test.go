package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func feedFixture() []models.Product {
	return []models.Product{
		{
			ID:          uuid.New(),
			Title:       "Canadian Gold Maple Leaf",
			Slug:        "canadian-gold-maple-leaf",
			Description: "24k gold bullion coin from the Royal Canadian Mint.",
			Categories:  []string{"Gold", "Coins"},
			Images:      []string{"https://cdn.aureusmetals.com/maple.jpg"},
			Variants: []models.Variant{
				{SKU: "RCM-1OZ", Name: "1 oz", Price: decimal.RequireFromString("2389.00"), Stock: 12},
				{SKU: "RCM-HALF", Name: "1/2 oz", Price: decimal.RequireFromString("1220.50"), Stock: 0},
			},
		},
	}
}

func testGenerator() *Generator {
	g := NewGenerator("https://aureusmetals.com/", "Aureus Metals")
	g.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestGoogleFeedRendersMerchantFields(t *testing.T) {
	t.Parallel()
	body, err := testGenerator().Google(feedFixture())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	feed := string(body)

	for _, want := range []string{
		`xmlns:g="http://base.google.com/ns/1.0"`,
		"<g:id>RCM-1OZ</g:id>",
		"<title>Canadian Gold Maple Leaf - 1 oz</title>",
		"<g:price>2389.00 USD</g:price>",
		"<g:availability>in_stock</g:availability>",
		"<g:product_type>Gold &gt; Coins</g:product_type>",
		"<link>https://aureusmetals.com/products/canadian-gold-maple-leaf</link>",
		"<g:image_link>https://cdn.aureusmetals.com/maple.jpg</g:image_link>",
	} {
		if !strings.Contains(feed, want) {
			t.Fatalf("feed missing %q\n%s", want, feed)
		}
	}
}

func TestFeedMarksDepletedVariantsOutOfStock(t *testing.T) {
	t.Parallel()
	body, err := testGenerator().Google(feedFixture())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	feed := string(body)

	if !strings.Contains(feed, "<g:id>RCM-HALF</g:id>") {
		t.Fatalf("depleted variant missing from feed")
	}
	if !strings.Contains(feed, "<g:availability>out_of_stock</g:availability>") {
		t.Fatalf("expected out_of_stock availability\n%s", feed)
	}
}

func TestPinterestFeedSharesItemShape(t *testing.T) {
	t.Parallel()
	body, err := testGenerator().Pinterest(feedFixture())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	feed := string(body)

	if !strings.Contains(feed, "<description>Product catalog for Pinterest</description>") {
		t.Fatalf("expected pinterest channel description\n%s", feed)
	}
	if !strings.Contains(feed, "<g:id>RCM-1OZ</g:id>") {
		t.Fatalf("expected merchant items in pinterest feed")
	}
}
