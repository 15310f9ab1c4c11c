// Package dispatch ranks hospitals holding a needed resource by distance from a requester.
package dispatch

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/geo"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/maps"
)

const DefaultLimit = 5

type Resolver interface {
	Nearest(ctx context.Context, q Query) (*Result, error)
}

type resolver struct {
	repo    Repository
	logg    *logger.Logger
	speed   float64
	limit   int
	timeout time.Duration
}

// NewResolver applies the dispatch config. A non-positive limit falls back to DefaultLimit.
func NewResolver(repo Repository, cfg config.DispatchConfig, timeout time.Duration, logg *logger.Logger) (Resolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dispatch repository required")
	}
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &resolver{
		repo:    repo,
		logg:    logg,
		speed:   cfg.AverageSpeedKmh,
		limit:   limit,
		timeout: timeout,
	}, nil
}

func (r *resolver) Nearest(ctx context.Context, q Query) (*Result, error) {
	need := strings.TrimSpace(q.Need)
	if q.Location == nil || need == "" {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonMissingParameters, "missing required parameters: latitude, longitude, need_type")
	}
	origin := *q.Location
	if err := geo.ValidatePoint(origin); err != nil {
		return nil, err
	}
	minAvailable := 1
	if q.MinAvailable != nil {
		minAvailable = *q.MinAvailable
	}
	if minAvailable < 0 {
		return nil, pkgerrors.Invalid(pkgerrors.ReasonInvalidValue, "min_available must be a non-negative number")
	}

	params := SearchParams{Location: origin, NeedType: need, MinAvailable: minAvailable}
	candidates, err := r.collect(ctx, need, q.BloodGroup, minAvailable, &params)
	if err != nil {
		return nil, err
	}

	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		lat, lon, ok := c.hospital.Coordinates()
		if !ok {
			continue
		}
		to := geo.Point{Latitude: lat, Longitude: lon}
		km, err := geo.Distance(origin, to)
		if err != nil {
			if r.logg != nil {
				r.logg.Warn(r.logg.WithField(ctx, "hospital_id", c.hospital.ID.String()), "dispatch.invalid_hospital_location")
			}
			continue
		}
		row := c.row
		row.HospitalID = c.hospital.ID
		row.HospitalName = c.hospital.Name
		row.Address = c.hospital.Address
		row.City = c.hospital.City
		row.Phone = c.hospital.Phone
		row.DistanceKm = km
		row.EstimatedMinutes = geo.TravelTimeMinutes(km, r.speed)
		row.GoogleMapsLink = maps.DirectionsLink(origin, to)
		ranked = append(ranked, row)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if len(ranked) > r.limit {
		ranked = ranked[:r.limit]
	}

	if r.logg != nil {
		r.logg.Debug(r.logg.WithFields(ctx, map[string]any{
			"need_type":  need,
			"candidates": len(candidates),
			"returned":   len(ranked),
		}), "dispatch.nearest")
	}
	return &Result{SearchParams: params, Candidates: ranked}, nil
}

type candidate struct {
	hospital models.Hospital
	row      Candidate
}

func (r *resolver) collect(ctx context.Context, need, bloodGroup string, minAvailable int, params *SearchParams) ([]candidate, error) {
	ctx, cancel := db.Bounded(ctx, r.timeout)
	defer cancel()

	if need == NeedBlood {
		raw := strings.TrimSpace(bloodGroup)
		if raw == "" {
			return nil, pkgerrors.Invalid(pkgerrors.ReasonMissingBloodGroup, "blood_group is required when need_type is blood")
		}
		group, err := enums.ParseBloodGroup(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid blood group")
		}
		params.BloodGroup = group.String()

		rows, err := r.repo.BloodCandidates(ctx, group, minAvailable)
		if err != nil {
			return nil, db.Translate(err, "load blood candidates")
		}
		out := make([]candidate, 0, len(rows))
		for _, row := range rows {
			if row.Hospital == nil {
				continue
			}
			units := row.UnitsAvailable
			out = append(out, candidate{hospital: *row.Hospital, row: Candidate{
				ResourceType:   ResourceBlood,
				BloodGroup:     row.BloodGroup.String(),
				UnitsAvailable: &units,
				LastUpdated:    row.LastUpdated,
			}})
		}
		return out, nil
	}

	bedType, err := enums.ParseBedType(need)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid need type")
	}
	rows, err := r.repo.BedCandidates(ctx, bedType, minAvailable)
	if err != nil {
		return nil, db.Translate(err, "load bed candidates")
	}
	out := make([]candidate, 0, len(rows))
	for _, row := range rows {
		if row.Hospital == nil {
			continue
		}
		available, total := row.AvailableBeds, row.TotalBeds
		out = append(out, candidate{hospital: *row.Hospital, row: Candidate{
			ResourceType:  ResourceBed,
			BedType:       row.BedType.String(),
			AvailableBeds: &available,
			TotalBeds:     &total,
			LastUpdated:   row.LastUpdated,
		}})
	}
	return out, nil
}
