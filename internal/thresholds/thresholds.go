// Package thresholds decides which shortage alerts an inventory value raises.
// Classification looks only at the post-mutation value; it has no memory of
// earlier alerts.
package thresholds

import (
	"fmt"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

const (
	DefaultICUCritical = 2
	DefaultICUHigh     = 5
	DefaultBloodHigh   = 3
)

// Thresholds are the tunable boundaries. ICU counts strictly below ICUCritical
// are critical, strictly below ICUHigh are high. Blood at or below BloodHigh is high.
type Thresholds struct {
	ICUCritical int
	ICUHigh     int
	BloodHigh   int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ICUCritical: DefaultICUCritical,
		ICUHigh:     DefaultICUHigh,
		BloodHigh:   DefaultBloodHigh,
	}
}

// FromConfig falls back to defaults for unset or non-positive values.
func FromConfig(cfg config.AlertsConfig) Thresholds {
	th := DefaultThresholds()
	if cfg.ICUCritical > 0 {
		th.ICUCritical = cfg.ICUCritical
	}
	if cfg.ICUHigh > 0 {
		th.ICUHigh = cfg.ICUHigh
	}
	if cfg.BloodHigh > 0 {
		th.BloodHigh = cfg.BloodHigh
	}
	return th
}

// Event is one alert decision. Escalation holds the SMS body and is only set
// for critical events.
type Event struct {
	Type       enums.AlertType
	Severity   enums.Severity
	Message    string
	Escalation string
	Resource   string
}

func (e Event) Critical() bool {
	return e.Severity == enums.SeverityCritical
}

type BedSubject struct {
	HospitalName string
	BedType      enums.BedType
	Available    int
}

type BloodSubject struct {
	HospitalName string
	BloodGroup   enums.BloodGroup
	Units        int
}

// ClassifyBed evaluates the ICU bands and the bed-full rule independently, so
// ICU at zero yields two events.
func ClassifyBed(th Thresholds, s BedSubject) []Event {
	var events []Event
	resource := s.BedType.String()

	if s.BedType == enums.BedTypeICU {
		switch {
		case s.Available < th.ICUCritical:
			events = append(events, Event{
				Type:       enums.AlertTypeBedShortage,
				Severity:   enums.SeverityCritical,
				Message:    fmt.Sprintf("CRITICAL: Only %d ICU bed(s) available at %s", s.Available, s.HospitalName),
				Escalation: fmt.Sprintf("Only %d ICU bed(s) remaining. Immediate action required.", s.Available),
				Resource:   resource,
			})
		case s.Available < th.ICUHigh:
			events = append(events, Event{
				Type:     enums.AlertTypeBedShortage,
				Severity: enums.SeverityHigh,
				Message:  fmt.Sprintf("WARNING: Only %d ICU beds available at %s", s.Available, s.HospitalName),
				Resource: resource,
			})
		}
	}

	if s.Available == 0 {
		events = append(events, Event{
			Type:       enums.AlertTypeBedFull,
			Severity:   enums.SeverityCritical,
			Message:    fmt.Sprintf("CRITICAL: %s beds are completely full at %s", s.BedType, s.HospitalName),
			Escalation: fmt.Sprintf("%s beds are completely full. No capacity available.", s.BedType),
			Resource:   resource,
		})
	}

	return events
}

func ClassifyBlood(th Thresholds, s BloodSubject) []Event {
	resource := s.BloodGroup.String()
	switch {
	case s.Units == 0:
		return []Event{{
			Type:       enums.AlertTypeBloodShortage,
			Severity:   enums.SeverityCritical,
			Message:    fmt.Sprintf("CRITICAL: %s blood completely out of stock at %s", s.BloodGroup, s.HospitalName),
			Escalation: fmt.Sprintf("%s blood is OUT OF STOCK. Urgent replenishment needed.", s.BloodGroup),
			Resource:   resource,
		}}
	case s.Units <= th.BloodHigh:
		return []Event{{
			Type:     enums.AlertTypeBloodShortage,
			Severity: enums.SeverityHigh,
			Message:  fmt.Sprintf("WARNING: Only %d unit(s) of %s blood at %s", s.Units, s.BloodGroup, s.HospitalName),
			Resource: resource,
		}}
	}
	return nil
}
