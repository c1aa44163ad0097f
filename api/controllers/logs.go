package controllers

import (
	"net/http"
	"strings"

	"github.com/aureusmetals/aureus-backend/api/responses"
	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	pkgerrors "github.com/aureusmetals/aureus-backend/pkg/errors"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

// ListLogs returns the audit trail newest first, optionally filtered by type.
func ListLogs(svc *audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var typeFilter *enums.AuditType
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed := enums.AuditType(raw)
			if !parsed.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid log type %q", raw))
				return
			}
			typeFilter = &parsed
		}

		rows, err := svc.List(r.Context(), params, typeFilter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit logs"))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ClearLogs wipes the audit trail.
func ClearLogs(svc *audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear audit logs"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
