package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/api/validators"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/seo"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type variantRequest struct {
	SKU               string `json:"sku" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Weight            string `json:"weight,omitempty"`
	Purity            string `json:"purity,omitempty"`
	Mint              string `json:"mint,omitempty"`
	Year              int    `json:"year,omitempty"`
	Price             string `json:"price" validate:"required"`
	Stock             int    `json:"stock" validate:"min=0"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
}

type createProductRequest struct {
	Title          string           `json:"title" validate:"required"`
	Description    string           `json:"description,omitempty"`
	Categories     []string         `json:"categories,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	Images         []string         `json:"images,omitempty"`
	SEOTitle       *string          `json:"seo_title,omitempty"`
	SEODescription *string          `json:"seo_description,omitempty"`
	Variants       []variantRequest `json:"variants" validate:"required,min=1,dive"`
}

type updateProductRequest struct {
	Title          *string           `json:"title,omitempty"`
	Description    *string           `json:"description,omitempty"`
	Categories     *[]string         `json:"categories,omitempty"`
	Tags           *[]string         `json:"tags,omitempty"`
	Images         *[]string         `json:"images,omitempty"`
	SEOTitle       *string           `json:"seo_title,omitempty"`
	SEODescription *string           `json:"seo_description,omitempty"`
	Variants       *[]variantRequest `json:"variants,omitempty" validate:"omitempty,min=1,dive"`
}

func toVariantInputs(rows []variantRequest) ([]catalog.VariantInput, error) {
	inputs := make([]catalog.VariantInput, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid price %q for sku %s", row.Price, row.SKU)
		}
		if price.IsNegative() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "price must not be negative for sku %s", row.SKU)
		}
		inputs = append(inputs, catalog.VariantInput{
			SKU:               row.SKU,
			Name:              row.Name,
			Weight:            row.Weight,
			Purity:            row.Purity,
			Mint:              row.Mint,
			Year:              row.Year,
			Price:             price,
			Stock:             row.Stock,
			LowStockThreshold: row.LowStockThreshold,
		})
	}
	return inputs, nil
}

// CreateProduct handles product creation with nested variants.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := toVariantInputs(payload.Variants)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Title:          payload.Title,
			Description:    payload.Description,
			Categories:     payload.Categories,
			Tags:           payload.Tags,
			Images:         payload.Images,
			SEOTitle:       payload.SEOTitle,
			SEODescription: payload.SEODescription,
			Variants:       variants,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update; a variants array replaces the set.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Title:          payload.Title,
			Description:    payload.Description,
			Categories:     payload.Categories,
			Tags:           payload.Tags,
			Images:         payload.Images,
			SEOTitle:       payload.SEOTitle,
			SEODescription: payload.SEODescription,
		}
		if payload.Variants != nil {
			variants, err := toVariantInputs(*payload.Variants)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Variants = &variants
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product and its variants.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": productID.String()})
	}
}

// GetProduct returns a product by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the paginated catalog.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductJSONLD returns the schema.org structured data for a product.
func ProductJSONLD(svc catalog.Service, cfg config.FeedConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, seo.ProductJSONLD(product, cfg.BaseURL, cfg.Brand))
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	productID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}

func paginationFromQuery(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Offset: offset}, nil
}
