package enums

import "fmt"

// AlertType describes which shortage rule produced an alert.
type AlertType string

const (
	AlertTypeBedShortage   AlertType = "bed_shortage"
	AlertTypeBedFull       AlertType = "bed_full"
	AlertTypeBloodShortage AlertType = "blood_shortage"
)

var validAlertTypes = []AlertType{
	AlertTypeBedShortage,
	AlertTypeBedFull,
	AlertTypeBloodShortage,
}

func (a AlertType) String() string {
	return string(a)
}

func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}

// Severity is the ordinal urgency of an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank orders severities critical > high > medium > low; unknown values rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

func ParseSeverity(value string) (Severity, error) {
	s := Severity(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid severity %q", value)
	}
	return s, nil
}
