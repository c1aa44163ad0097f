package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput references one variant to purchase.
type OrderItemInput struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries the checkout payload. Total is optional; when zero
// it is computed from the live variant prices at reservation time.
type CreateOrderInput struct {
	CustomerEmail   string
	ShippingAddress string
	ShippingOption  string
	Notes           *string
	Total           decimal.Decimal
	Items           []OrderItemInput
}
