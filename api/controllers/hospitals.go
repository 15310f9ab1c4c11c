package controllers

import (
	"net/http"

	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/api/validators"
	"github.com/meditrack/meditrack-api/internal/hospitals"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/types"
)

// HospitalsList returns active hospitals with capacity aggregates.
func HospitalsList(svc hospitals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hospital service unavailable"))
			return
		}

		q := r.URL.Query()
		rows, err := svc.List(r.Context(), hospitals.ListParams{
			City:     q.Get("city"),
			District: q.Get("district"),
			State:    q.Get("state"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteEnvelope(w, http.StatusOK, types.ListEnvelope{Data: rows, Count: len(rows)})
	}
}

func HospitalGet(svc hospitals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hospital service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
