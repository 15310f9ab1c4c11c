// Package maps builds links into the external directions service.
package maps

import (
	"strconv"

	"github.com/meditrack/meditrack-api/pkg/geo"
)

const directionsBaseURL = "https://www.google.com/maps/dir/?api=1"

// DirectionsLink returns a driving directions URL between two points. It makes no network call.
func DirectionsLink(from, to geo.Point) string {
	return directionsBaseURL +
		"&origin=" + formatPoint(from) +
		"&destination=" + formatPoint(to) +
		"&travelmode=driving"
}

func formatPoint(p geo.Point) string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}
