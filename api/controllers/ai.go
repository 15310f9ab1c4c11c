package controllers

import (
	"net/http"

	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/api/validators"
	"github.com/meditrack/meditrack-api/internal/recommend"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/geo"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

const maxPatientDescription = 2000

type recommendRequest struct {
	PatientDescription string   `json:"patient_description"`
	City               string   `json:"city,omitempty"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
}

func AIRecommend(svc recommend.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotConfigured, "AI service is not available"))
			return
		}

		var payload recommendRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := recommend.Request{
			PatientDescription: validators.SanitizeString(payload.PatientDescription, maxPatientDescription),
			City:               validators.SanitizeString(payload.City, 100),
		}
		if payload.Latitude != nil && payload.Longitude != nil {
			req.Location = &geo.Point{Latitude: *payload.Latitude, Longitude: *payload.Longitude}
		}

		result, err := svc.Recommend(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
