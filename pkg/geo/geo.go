// Package geo holds the great-circle helpers used to rank hospitals by proximity.
package geo

import (
	"fmt"
	"math"

	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
)

const (
	EarthRadiusKm = 6371.0
	// DefaultSpeedKmh is the assumed average urban ambulance speed.
	DefaultSpeedKmh = 40.0
)

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidatePoint rejects non-finite or out of range coordinates.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) || p.Latitude < -90 || p.Latitude > 90 {
		return pkgerrors.Invalid(pkgerrors.ReasonInvalidCoordinate, fmt.Sprintf("latitude %v out of range", p.Latitude))
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) || p.Longitude < -180 || p.Longitude > 180 {
		return pkgerrors.Invalid(pkgerrors.ReasonInvalidCoordinate, fmt.Sprintf("longitude %v out of range", p.Longitude))
	}
	return nil
}

// Distance returns the haversine distance in kilometers rounded to one decimal.
func Distance(from, to Point) (float64, error) {
	if err := ValidatePoint(from); err != nil {
		return 0, err
	}
	if err := ValidatePoint(to); err != nil {
		return 0, err
	}

	dLat := toRadians(to.Latitude - from.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(from.Latitude))*math.Cos(toRadians(to.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*10) / 10, nil
}

// TravelTimeMinutes estimates whole minutes to cover km at speedKmh.
// A non-positive speed falls back to DefaultSpeedKmh.
func TravelTimeMinutes(km, speedKmh float64) int {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	if km <= 0 {
		return 0
	}
	return int(math.Ceil(km / speedKmh * 60))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
