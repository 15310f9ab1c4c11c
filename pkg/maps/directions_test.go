package maps

import (
	"testing"

	"github.com/meditrack/meditrack-api/pkg/geo"
)

func TestDirectionsLink(t *testing.T) {
	got := DirectionsLink(geo.Point{Latitude: 19.076, Longitude: 72.8777}, geo.Point{Latitude: 19.003, Longitude: 72.8417})
	want := "https://www.google.com/maps/dir/?api=1&origin=19.076,72.8777&destination=19.003,72.8417&travelmode=driving"
	if got != want {
		t.Fatalf("unexpected link\n got: %s\nwant: %s", got, want)
	}
}

func TestDirectionsLinkIsDeterministic(t *testing.T) {
	from := geo.Point{Latitude: -33.8688, Longitude: 151.2093}
	to := geo.Point{Latitude: -33.8568, Longitude: 151.2153}
	if DirectionsLink(from, to) != DirectionsLink(from, to) {
		t.Fatal("expected identical links for identical input")
	}
}
