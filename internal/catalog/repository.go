package catalog

import (
	"context"

	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateProduct inserts the product together with its variants.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveProduct persists scalar field changes on an existing product.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Variants").Save(product).Error
}

// DeleteProduct removes the product and cascades to its variants.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Product{}, "id = ?", id).Error
}

// FindByID loads the product with its variants.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with its variants by slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns products with variants, newest first.
func (r *Repository) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	params = pagination.Normalize(params)
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// AllProducts loads the entire catalog with variants, used by feed and
// structured-data generation.
func (r *Repository) AllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("created_at ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SlugExists reports whether another product already owns the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceVariants swaps the product's variant set wholesale.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.Variant) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.Variant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	return tx.Create(&variants).Error
}

// FindVariantBySKU loads one variant by its unique SKU.
func (r *Repository) FindVariantBySKU(ctx context.Context, sku string) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).First(&variant, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantByID loads one variant.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// UpdateVariantPrice overwrites the price of one variant.
func (r *Repository) UpdateVariantPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ?", id).
		Update("price", price)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetVariantStock overwrites the stock counter for the SKU.
func (r *Repository) SetVariantStock(ctx context.Context, sku string, stock int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("sku = ?", sku).
		Update("stock", stock)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LowStockVariant pairs a variant with its parent product title for alerts.
type LowStockVariant struct {
	VariantID    uuid.UUID
	SKU          string
	ProductTitle string
	VariantName  string
	Stock        int
	Threshold    int
}

// ListLowStockVariants returns every variant at or below its threshold.
func (r *Repository) ListLowStockVariants(ctx context.Context) ([]LowStockVariant, error) {
	var rows []LowStockVariant
	err := r.db.WithContext(ctx).
		Table("variants").
		Select(`variants.id AS variant_id,
			variants.sku AS sku,
			products.title AS product_title,
			variants.name AS variant_name,
			variants.stock AS stock,
			variants.low_stock_threshold AS threshold`).
		Joins("JOIN products ON products.id = variants.product_id").
		Where("variants.stock <= variants.low_stock_threshold").
		Order("variants.sku ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
