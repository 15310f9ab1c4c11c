package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/geo"
)

// NeedBlood selects blood inventory; any other need is a bed type.
const NeedBlood = "blood"

const (
	ResourceBed   = "bed"
	ResourceBlood = "blood"
)

// Query is a dispatcher's request. A nil Location or MinAvailable means the
// caller did not supply it.
type Query struct {
	Location     *geo.Point
	Need         string
	BloodGroup   string
	MinAvailable *int
}

type SearchParams struct {
	Location     geo.Point `json:"location"`
	NeedType     string    `json:"need_type"`
	BloodGroup   string    `json:"blood_group,omitempty"`
	MinAvailable int       `json:"min_available"`
}

// Candidate is one ranked hospital. Bed fields are set for bed needs and
// blood fields for blood needs.
type Candidate struct {
	HospitalID       uuid.UUID `json:"hospital_id"`
	HospitalName     string    `json:"hospital_name"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	Phone            string    `json:"phone"`
	DistanceKm       float64   `json:"distance_km"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	GoogleMapsLink   string    `json:"google_maps_link"`
	ResourceType     string    `json:"resource_type"`
	BedType          string    `json:"bed_type,omitempty"`
	AvailableBeds    *int      `json:"available_beds,omitempty"`
	TotalBeds        *int      `json:"total_beds,omitempty"`
	BloodGroup       string    `json:"blood_group,omitempty"`
	UnitsAvailable   *int      `json:"units_available,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

type Result struct {
	SearchParams SearchParams `json:"search_params"`
	Candidates   []Candidate  `json:"data"`
}
