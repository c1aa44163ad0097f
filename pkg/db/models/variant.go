package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is a purchasable SKU-level configuration of a Product. Stock is
// mutated only inside reservation transactions and ingest/admin updates.
type Variant struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SKU               string          `gorm:"column:sku;not null;uniqueIndex"`
	Name              string          `gorm:"column:name;not null"`
	Weight            string          `gorm:"column:weight"`
	Purity            string          `gorm:"column:purity"`
	Mint              string          `gorm:"column:mint"`
	Year              int             `gorm:"column:year"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock             int             `gorm:"column:stock;not null;default:0"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:5"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
