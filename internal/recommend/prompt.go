package recommend

import (
	"encoding/json"
	"fmt"

	"github.com/meditrack/meditrack-api/pkg/geo"
)

const systemPrompt = "You are a medical resource assistant for emergency situations in Indian government hospitals. " +
	"You have access to real-time bed and blood availability data. " +
	"Given a patient description and current hospital data, recommend the best 3 hospitals. " +
	"Be concise, clear, and prioritize proximity and availability. " +
	"Always include the phone number of recommended hospitals. " +
	"Format: numbered list with hospital name, why recommended, distance, available resources."

// HospitalSummary is the per-hospital context handed to the model.
type HospitalSummary struct {
	Name               string         `json:"name"`
	Address            string         `json:"address"`
	Phone              string         `json:"phone"`
	DistanceKm         *float64       `json:"distance_km"`
	Beds               map[string]int `json:"beds"`
	Blood              map[string]int `json:"blood"`
	TotalBedsAvailable int            `json:"total_beds_available"`
}

func buildPrompt(description string, location geo.Point, summaries []HospitalSummary) (string, error) {
	body, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Patient Situation: %s\n\nAvailable Hospitals:\n%s\n\nPatient Location: Lat %v, Long %v\n\nPlease recommend the top 3 hospitals for this patient and explain your reasoning.",
		description, body, location.Latitude, location.Longitude,
	), nil
}
