package realtime

import "encoding/json"

// Server events.
const (
	EventBedUpdated   = "bed_updated"
	EventBloodUpdated = "blood_updated"
	EventAlertCreated = "alert_created"
	EventJoinedCity   = "joined_city"
	EventLeftCity     = "left_city"
	EventError        = "error"
)

// Client actions.
const (
	ActionJoinCity  = "join_city"
	ActionLeaveCity = "leave_city"
)

// Message is the frame written to clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ClientMessage is the frame read from clients.
type ClientMessage struct {
	Event string `json:"event"`
	City  string `json:"city"`
}

// BedUpdated is emitted after a bed inventory write.
type BedUpdated struct {
	HospitalID    string `json:"hospital_id"`
	HospitalName  string `json:"hospital_name"`
	BedType       string `json:"bed_type"`
	AvailableBeds int    `json:"available_beds"`
	TotalBeds     int    `json:"total_beds"`
}

// BloodUpdated is emitted after a blood inventory write.
type BloodUpdated struct {
	HospitalID     string `json:"hospital_id"`
	HospitalName   string `json:"hospital_name"`
	BloodGroup     string `json:"blood_group"`
	UnitsAvailable int    `json:"units_available"`
	UnitsReserved  int    `json:"units_reserved"`
}

// AlertCreated is emitted once per alert raised by a write.
type AlertCreated struct {
	AlertID      string `json:"alert_id"`
	HospitalName string `json:"hospital_name"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
}

type cityNotice struct {
	City    string `json:"city"`
	Message string `json:"message"`
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(Message{Event: event, Data: data})
}
