package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/api/validators"
	"github.com/aureusmetals/aureus-backend/internal/orders"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type orderItemRequest struct {
	ProductID string `json:"product_id,omitempty"`
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	CustomerEmail   string             `json:"customer_email" validate:"required,email"`
	ShippingAddress string             `json:"shipping_address" validate:"required"`
	ShippingOption  string             `json:"shipping_option,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	Total           string             `json:"total,omitempty"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder handles checkout: reservation, persistence and lifecycle kickoff.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			CustomerEmail:   payload.CustomerEmail,
			ShippingAddress: payload.ShippingAddress,
			ShippingOption:  payload.ShippingOption,
			Notes:           payload.Notes,
		}
		if payload.Total != "" {
			total, err := decimal.NewFromString(payload.Total)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid total %q", payload.Total))
				return
			}
			input.Total = total
		}
		for _, item := range payload.Items {
			variantID, err := uuid.Parse(item.VariantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id"))
				return
			}
			productID := uuid.Nil
			if item.ProductID != "" {
				productID, err = uuid.Parse(item.ProductID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
					return
				}
			}
			input.Items = append(input.Items, orders.OrderItemInput{
				ProductID: productID,
				VariantID: variantID,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns one order with its item snapshots.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns orders newest first.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AdvanceOrder forces one lifecycle transition, bypassing the schedule.
func AdvanceOrder(lifecycle *orders.Lifecycle, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")
		if err := lifecycle.Advance(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
