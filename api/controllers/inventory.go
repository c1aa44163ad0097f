package controllers

import (
	"net/http"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/api/validators"
	"github.com/aureusmetals/aureus-backend/internal/ingest"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

type importInventoryRequest struct {
	CSV string `json:"csv" validate:"required"`
}

// ImportInventory applies a "SKU, Quantity" CSV payload to variant stock.
func ImportInventory(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload importInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ImportCSV(r.Context(), payload.CSV)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
