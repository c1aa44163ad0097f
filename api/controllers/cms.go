package controllers

import (
	"net/http"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/api/validators"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type updateSectionRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// GetSection returns one CMS content block by key.
func GetSection(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, err := svc.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, section)
	}
}

// UpdateSection overwrites a section's title and/or content.
func UpdateSection(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateSectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		section, err := svc.Update(r.Context(), chi.URLParam(r, "key"), cms.UpdateInput{
			Title:   payload.Title,
			Content: payload.Content,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, section)
	}
}
