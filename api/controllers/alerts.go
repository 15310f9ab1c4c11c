package controllers

import (
	"net/http"
	"strings"

	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/api/validators"
	"github.com/meditrack/meditrack-api/internal/alerts"
	"github.com/meditrack/meditrack-api/pkg/enums"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/types"
)

func AlertsList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		resolved, err := validators.ParseQueryBool(r, "resolved")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := alerts.ListParams{City: r.URL.Query().Get("city"), Resolved: resolved}
		if raw := strings.TrimSpace(r.URL.Query().Get("severity")); raw != "" {
			severity, err := enums.ParseSeverity(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid severity"))
				return
			}
			params.Severity = severity
		}

		rows, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := alerts.NewViews(rows)
		responses.WriteEnvelope(w, http.StatusOK, types.ListEnvelope{Data: views, Count: len(views)})
	}
}

// AlertResolve marks an alert resolved by the calling admin.
func AlertResolve(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		principal, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alert, err := svc.Resolve(r.Context(), id, principal.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts.NewView(*alert))
	}
}
