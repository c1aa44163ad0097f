package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/pkg/db/models"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error)
}

type service struct {
	repo  *Repository
	audit audit.Recorder
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, recorder audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if len(input.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant required")
	}

	slug, err := s.uniqueSlug(ctx, Slugify(input.Title), uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve slug")
	}

	productID := uuid.New()
	product := &models.Product{
		ID:             productID,
		Title:          input.Title,
		Slug:           slug,
		Description:    input.Description,
		Categories:     input.Categories,
		Tags:           input.Tags,
		Images:         input.Images,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		Variants:       buildVariants(productID, input.Variants),
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeProduct,
		Action:       enums.AuditActionCreate,
		Message:      fmt.Sprintf("Created product %q", created.Title),
		ResourceType: "product",
		ResourceID:   created.ID.String(),
	})
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Title != nil && *input.Title != product.Title {
		product.Title = *input.Title
		slug, err := s.uniqueSlug(ctx, Slugify(*input.Title), productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve slug")
		}
		product.Slug = slug
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Categories != nil {
		product.Categories = *input.Categories
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.SEOTitle != nil {
		product.SEOTitle = input.SEOTitle
	}
	if input.SEODescription != nil {
		product.SEODescription = input.SEODescription
	}

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	if input.Variants != nil {
		if len(*input.Variants) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant required")
		}
		if err := s.repo.ReplaceVariants(ctx, productID, buildVariants(productID, *input.Variants)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace variants")
		}
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeProduct,
		Action:       enums.AuditActionUpdate,
		Message:      fmt.Sprintf("Updated product %q", updated.Title),
		ResourceType: "product",
		ResourceID:   updated.ID.String(),
	})
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.audit.Record(ctx, audit.Entry{
		Type:         enums.AuditTypeProduct,
		Action:       enums.AuditActionDelete,
		Message:      fmt.Sprintf("Deleted product %q", product.Title),
		ResourceType: "product",
		ResourceID:   productID.String(),
	})
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// uniqueSlug suffixes the base slug with an incrementing counter until free.
func (s *service) uniqueSlug(ctx context.Context, base string, excludeID uuid.UUID) (string, error) {
	if base == "" {
		base = "product"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func buildVariants(productID uuid.UUID, inputs []VariantInput) []models.Variant {
	variants := make([]models.Variant, 0, len(inputs))
	for _, in := range inputs {
		threshold := in.LowStockThreshold
		if threshold <= 0 {
			threshold = 5
		}
		variants = append(variants, models.Variant{
			ID:                uuid.New(),
			ProductID:         productID,
			SKU:               in.SKU,
			Name:              in.Name,
			Weight:            in.Weight,
			Purity:            in.Purity,
			Mint:              in.Mint,
			Year:              in.Year,
			Price:             in.Price,
			Stock:             in.Stock,
			LowStockThreshold: threshold,
		})
	}
	return variants
}
