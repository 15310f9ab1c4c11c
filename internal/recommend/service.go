// Package recommend asks the language model to pick hospitals for a described patient.
package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/meditrack/meditrack-api/pkg/db/models"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/geo"
	"github.com/meditrack/meditrack-api/pkg/llm"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

// MaxHospitals caps how many hospitals are summarised into the prompt.
const MaxHospitals = 10

// HospitalSource lists active hospitals with inventory attached.
type HospitalSource interface {
	Active(ctx context.Context, city string) ([]models.Hospital, error)
}

type Request struct {
	PatientDescription string
	City               string
	Location           *geo.Point
}

type Recommendation struct {
	PatientDescription string `json:"patient_description"`
	HospitalsAnalyzed  int    `json:"hospitals_analyzed"`
	Recommendation     string `json:"recommendation"`
}

type Service interface {
	Recommend(ctx context.Context, req Request) (*Recommendation, error)
}

type service struct {
	hospitals HospitalSource
	completer llm.Completer
	logg      *logger.Logger
}

func NewService(hospitals HospitalSource, completer llm.Completer, logg *logger.Logger) (Service, error) {
	if hospitals == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "hospital source required")
	}
	if completer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "llm completer required")
	}
	return &service{hospitals: hospitals, completer: completer, logg: logg}, nil
}

type enabler interface {
	Enabled() bool
}

func (s *service) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	if e, ok := s.completer.(enabler); ok && !e.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "AI service is not available")
	}

	description := strings.TrimSpace(req.PatientDescription)
	if description == "" || req.Location == nil {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonMissingParameters, "missing required parameters: patient_description, latitude, longitude")
	}
	if err := geo.ValidatePoint(*req.Location); err != nil {
		return nil, err
	}

	rows, err := s.hospitals.Active(ctx, req.City)
	if err != nil {
		return nil, err
	}
	summaries := Summarize(*req.Location, rows)
	if len(summaries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No hospitals found in the specified area")
	}

	prompt, err := buildPrompt(description, *req.Location, summaries)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build prompt")
	}
	text, err := s.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "recommend.completion_failed", err)
		}
		return nil, err
	}

	return &Recommendation{
		PatientDescription: description,
		HospitalsAnalyzed:  len(summaries),
		Recommendation:     text,
	}, nil
}

// Summarize ranks hospitals by distance from origin and keeps the nearest
// MaxHospitals. Hospitals without a location sort last with a null distance.
func Summarize(origin geo.Point, rows []models.Hospital) []HospitalSummary {
	out := make([]HospitalSummary, 0, len(rows))
	for _, h := range rows {
		summary := HospitalSummary{
			Name:    h.Name,
			Address: h.Address,
			Phone:   h.Phone,
			Beds:    map[string]int{},
			Blood:   map[string]int{},
		}
		if lat, lon, ok := h.Coordinates(); ok {
			if km, err := geo.Distance(origin, geo.Point{Latitude: lat, Longitude: lon}); err == nil {
				summary.DistanceKm = &km
			}
		}
		for _, bed := range h.BedInventory {
			summary.Beds[bed.BedType.String()] = bed.AvailableBeds
			summary.TotalBedsAvailable += bed.AvailableBeds
		}
		for _, blood := range h.BloodInventory {
			if blood.UnitsAvailable > 0 {
				summary.Blood[blood.BloodGroup.String()] = blood.UnitsAvailable
			}
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DistanceKm, out[j].DistanceKm
		if a == nil || b == nil {
			return a != nil
		}
		return *a < *b
	})
	if len(out) > MaxHospitals {
		out = out[:MaxHospitals]
	}
	return out
}
