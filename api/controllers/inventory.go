package controllers

import (
	"net/http"
	"strings"

	"github.com/meditrack/meditrack-api/api/middleware"
	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/api/validators"
	"github.com/meditrack/meditrack-api/internal/alerts"
	"github.com/meditrack/meditrack-api/internal/inventory"
	"github.com/meditrack/meditrack-api/internal/staff"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/types"
)

const maxQueryCount = 100000

// defaultMinimum hides full wards and empty blood groups unless asked for.
const defaultMinimum = 1

// Counts are range-checked by the inventory service.
type bedUpdateRequest struct {
	AvailableBeds   *int   `json:"available_beds"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,gte=1"`
}

type bloodUpdateRequest struct {
	UnitsAvailable  *int   `json:"units_available"`
	UnitsReserved   *int   `json:"units_reserved,omitempty"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,gte=1"`
}

func requirePrincipal(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (staff.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
	}
	return principal, ok
}

// BedsList returns bed inventory grouped by hospital.
func BedsList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		minAvailable, err := validators.ParseQueryInt(r, "minAvailable", defaultMinimum, 0, maxQueryCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListBeds(r.Context(), inventory.BedQuery{
			City:         r.URL.Query().Get("city"),
			BedType:      strings.TrimSpace(r.URL.Query().Get("type")),
			MinAvailable: minAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteEnvelope(w, http.StatusOK, types.ListEnvelope{Data: rows, Count: len(rows)})
	}
}

// BedUpdate sets available beds on one record for the caller's hospital.
func BedUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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

		var payload bedUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateBed(r.Context(), inventory.BedMutation{
			RecordID:        id,
			Available:       payload.AvailableBeds,
			ExpectedVersion: payload.ExpectedVersion,
			Principal:       principal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.MutationEnvelope{
			Data:     result.Record,
			Alerts:   alerts.NewViews(result.Alerts),
			Warnings: result.Warnings,
		})
	}
}

// BloodList returns blood inventory grouped by hospital.
func BloodList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		minUnits, err := validators.ParseQueryInt(r, "minUnits", defaultMinimum, 0, maxQueryCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListBlood(r.Context(), inventory.BloodQuery{
			City:       r.URL.Query().Get("city"),
			BloodGroup: strings.TrimSpace(r.URL.Query().Get("group")),
			MinUnits:   minUnits,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteEnvelope(w, http.StatusOK, types.ListEnvelope{Data: rows, Count: len(rows)})
	}
}

func BloodUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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

		var payload bloodUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateBlood(r.Context(), inventory.BloodMutation{
			RecordID:        id,
			UnitsAvailable:  payload.UnitsAvailable,
			UnitsReserved:   payload.UnitsReserved,
			ExpectedVersion: payload.ExpectedVersion,
			Principal:       principal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.MutationEnvelope{
			Data:     result.Record,
			Alerts:   alerts.NewViews(result.Alerts),
			Warnings: result.Warnings,
		})
	}
}
