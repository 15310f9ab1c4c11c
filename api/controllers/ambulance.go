package controllers

import (
	"net/http"

	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/api/validators"
	"github.com/meditrack/meditrack-api/internal/dispatch"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/geo"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/types"
)

// Coordinates and need are checked by the resolver so missing fields map to
// their own validation reasons.
type nearestRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	NeedType     string   `json:"need_type"`
	BloodGroup   string   `json:"blood_group,omitempty"`
	MinAvailable *int     `json:"min_available,omitempty"`
}

func (r nearestRequest) toQuery() dispatch.Query {
	q := dispatch.Query{
		Need:         r.NeedType,
		BloodGroup:   r.BloodGroup,
		MinAvailable: r.MinAvailable,
	}
	if r.Latitude != nil && r.Longitude != nil {
		q.Location = &geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return q
}

// AmbulanceNearest ranks hospitals holding the requested resource by distance.
func AmbulanceNearest(resolver dispatch.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch resolver unavailable"))
			return
		}

		var payload nearestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := resolver.Nearest(r.Context(), payload.toQuery())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.SearchEnvelope{
			Success:      true,
			Count:        len(result.Candidates),
			SearchParams: result.SearchParams,
			Data:         result.Candidates,
		})
	}
}
