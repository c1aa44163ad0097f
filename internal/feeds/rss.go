package feeds

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
)

// Feed names double as cache-key suffixes.
const (
	FeedGoogle    = "google"
	FeedPinterest = "pinterest"
)

// rss is an RSS 2.0 document with the Google Merchant namespace.
type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	NS      string   `xml:"xmlns:g,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []item `xml:"item"`
}

type item struct {
	ID           string `xml:"g:id"`
	Title        string `xml:"title"`
	Description  string `xml:"description"`
	Link         string `xml:"link"`
	ImageLink    string `xml:"g:image_link,omitempty"`
	Brand        string `xml:"g:brand"`
	Condition    string `xml:"g:condition"`
	Availability string `xml:"g:availability"`
	Price        string `xml:"g:price"`
	ProductType  string `xml:"g:product_type,omitempty"`
}

// Generator renders catalog snapshots as merchant feeds.
type Generator struct {
	baseURL string
	brand   string
	now     func() time.Time
}

func NewGenerator(baseURL, brand string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		brand:   brand,
		now:     time.Now,
	}
}

// Google renders the Google Shopping feed: one item per variant.
func (g *Generator) Google(products []models.Product) ([]byte, error) {
	return g.render(products, "Product feed for Google Shopping")
}

// Pinterest renders the Pinterest catalog feed. Pinterest consumes the
// same Merchant namespace, so only channel metadata differs.
func (g *Generator) Pinterest(products []models.Product) ([]byte, error) {
	return g.render(products, "Product catalog for Pinterest")
}

func (g *Generator) render(products []models.Product, description string) ([]byte, error) {
	doc := rss{
		Version: "2.0",
		NS:      "http://base.google.com/ns/1.0",
		Channel: channel{
			Title:         g.brand,
			Link:          g.baseURL,
			Description:   description,
			LastBuildDate: g.now().UTC().Format(time.RFC1123Z),
		},
	}

	for _, product := range products {
		link := fmt.Sprintf("%s/products/%s", g.baseURL, product.Slug)
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		productType := strings.Join(product.Categories, " > ")

		for _, variant := range product.Variants {
			availability := "in_stock"
			if variant.Stock <= 0 {
				availability = "out_of_stock"
			}
			doc.Channel.Items = append(doc.Channel.Items, item{
				ID:           variant.SKU,
				Title:        fmt.Sprintf("%s - %s", product.Title, variant.Name),
				Description:  product.Description,
				Link:         link,
				ImageLink:    image,
				Brand:        g.brand,
				Condition:    "new",
				Availability: availability,
				Price:        fmt.Sprintf("%s USD", variant.Price.StringFixed(2)),
				ProductType:  productType,
			})
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
