package controllers

import (
	"net/http"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/internal/feeds"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

// Feed serves a merchant feed snapshot as RSS XML.
func Feed(svc *feeds.Service, name string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := svc.Get(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			logg.Error(r.Context(), "failed to write feed response", err)
		}
	}
}
