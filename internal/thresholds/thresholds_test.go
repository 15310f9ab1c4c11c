package thresholds

import (
	"testing"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

type wantEvent struct {
	typ      enums.AlertType
	severity enums.Severity
}

func summarize(events []Event) []wantEvent {
	out := make([]wantEvent, 0, len(events))
	for _, e := range events {
		out = append(out, wantEvent{typ: e.Type, severity: e.Severity})
	}
	return out
}

func equalEvents(a, b []wantEvent) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClassifyBed(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name      string
		bedType   enums.BedType
		available int
		want      []wantEvent
	}{
		{name: "icu at zero raises shortage and full", bedType: enums.BedTypeICU, available: 0, want: []wantEvent{
			{enums.AlertTypeBedShortage, enums.SeverityCritical},
			{enums.AlertTypeBedFull, enums.SeverityCritical},
		}},
		{name: "icu at one is critical shortage only", bedType: enums.BedTypeICU, available: 1, want: []wantEvent{
			{enums.AlertTypeBedShortage, enums.SeverityCritical},
		}},
		{name: "icu at two is high", bedType: enums.BedTypeICU, available: 2, want: []wantEvent{
			{enums.AlertTypeBedShortage, enums.SeverityHigh},
		}},
		{name: "icu at four is high", bedType: enums.BedTypeICU, available: 4, want: []wantEvent{
			{enums.AlertTypeBedShortage, enums.SeverityHigh},
		}},
		{name: "icu at five is quiet", bedType: enums.BedTypeICU, available: 5},
		{name: "general at zero is full only", bedType: enums.BedTypeGeneral, available: 0, want: []wantEvent{
			{enums.AlertTypeBedFull, enums.SeverityCritical},
		}},
		{name: "general at one is quiet", bedType: enums.BedTypeGeneral, available: 1},
		{name: "ventilator at zero is full", bedType: enums.BedTypeVentilator, available: 0, want: []wantEvent{
			{enums.AlertTypeBedFull, enums.SeverityCritical},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyBed(th, BedSubject{HospitalName: "KEM Hospital", BedType: tt.bedType, Available: tt.available})
			if !equalEvents(summarize(got), tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, summarize(got))
			}
		})
	}
}

func TestClassifyBedMessages(t *testing.T) {
	got := ClassifyBed(DefaultThresholds(), BedSubject{HospitalName: "KEM Hospital", BedType: enums.BedTypeICU, Available: 0})
	if got[0].Message != "CRITICAL: Only 0 ICU bed(s) available at KEM Hospital" {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
	if got[0].Escalation != "Only 0 ICU bed(s) remaining. Immediate action required." {
		t.Fatalf("unexpected escalation %q", got[0].Escalation)
	}
	if got[1].Message != "CRITICAL: ICU beds are completely full at KEM Hospital" {
		t.Fatalf("unexpected message %q", got[1].Message)
	}
	if got[1].Resource != "ICU" {
		t.Fatalf("unexpected resource %q", got[1].Resource)
	}

	high := ClassifyBed(DefaultThresholds(), BedSubject{HospitalName: "Sion Hospital", BedType: enums.BedTypeICU, Available: 3})
	if high[0].Message != "WARNING: Only 3 ICU beds available at Sion Hospital" {
		t.Fatalf("unexpected message %q", high[0].Message)
	}
	if high[0].Escalation != "" || high[0].Critical() {
		t.Fatal("high events must not escalate")
	}
}

func TestClassifyBlood(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		units int
		want  []wantEvent
	}{
		{units: 0, want: []wantEvent{{enums.AlertTypeBloodShortage, enums.SeverityCritical}}},
		{units: 1, want: []wantEvent{{enums.AlertTypeBloodShortage, enums.SeverityHigh}}},
		{units: 3, want: []wantEvent{{enums.AlertTypeBloodShortage, enums.SeverityHigh}}},
		{units: 4},
		{units: 40},
	}
	for _, tt := range tests {
		got := ClassifyBlood(th, BloodSubject{HospitalName: "JJ Hospital", BloodGroup: enums.BloodGroupONeg, Units: tt.units})
		if !equalEvents(summarize(got), tt.want) {
			t.Fatalf("units=%d expected %v, got %v", tt.units, tt.want, summarize(got))
		}
	}

	out := ClassifyBlood(th, BloodSubject{HospitalName: "JJ Hospital", BloodGroup: enums.BloodGroupONeg, Units: 0})
	if out[0].Message != "CRITICAL: O- blood completely out of stock at JJ Hospital" {
		t.Fatalf("unexpected message %q", out[0].Message)
	}
	if out[0].Escalation != "O- blood is OUT OF STOCK. Urgent replenishment needed." {
		t.Fatalf("unexpected escalation %q", out[0].Escalation)
	}
	low := ClassifyBlood(th, BloodSubject{HospitalName: "JJ Hospital", BloodGroup: enums.BloodGroupABNeg, Units: 2})
	if low[0].Message != "WARNING: Only 2 unit(s) of AB- blood at JJ Hospital" {
		t.Fatalf("unexpected message %q", low[0].Message)
	}
}

func TestFromConfig(t *testing.T) {
	th := FromConfig(config.AlertsConfig{ICUCritical: 3})
	if th.ICUCritical != 3 || th.ICUHigh != DefaultICUHigh || th.BloodHigh != DefaultBloodHigh {
		t.Fatalf("unexpected thresholds %+v", th)
	}
	if got := ClassifyBed(th, BedSubject{BedType: enums.BedTypeICU, Available: 2}); got[0].Severity != enums.SeverityCritical {
		t.Fatalf("expected tuned threshold to make 2 critical, got %s", got[0].Severity)
	}
}
