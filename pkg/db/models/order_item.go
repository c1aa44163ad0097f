package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem captures the product/variant snapshot for one order line. The
// fields are intentionally decoupled from live catalog rows.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     string          `gorm:"column:order_id;not null;index"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID   uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Title       string          `gorm:"column:title;not null"`
	VariantName string          `gorm:"column:variant_name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
}
