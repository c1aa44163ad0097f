package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aureusmetals/aureus-backend/pkg/enums"
)

// Order is a customer checkout. Items are denormalized snapshots taken at
// purchase time; only the status column changes after creation.
type Order struct {
	ID              string            `gorm:"column:id;primaryKey"`
	CustomerEmail   string            `gorm:"column:customer_email;not null"`
	ShippingAddress string            `gorm:"column:shipping_address;not null"`
	ShippingOption  string            `gorm:"column:shipping_option;not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Notes           *string           `gorm:"column:notes"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
