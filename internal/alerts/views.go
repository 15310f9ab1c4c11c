package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/internal/hospitals"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

// View is an alert joined with the contact details of its hospital.
type View struct {
	ID         uuid.UUID          `json:"id"`
	HospitalID uuid.UUID          `json:"hospital_id"`
	AlertType  enums.AlertType    `json:"alert_type"`
	Resource   string             `json:"resource,omitempty"`
	Message    string             `json:"message"`
	Severity   enums.Severity     `json:"severity"`
	IsResolved bool               `json:"is_resolved"`
	ResolvedBy *uuid.UUID         `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time         `json:"resolved_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Hospital   *hospitals.Contact `json:"hospitals,omitempty"`
}

func NewView(a models.Alert) View {
	return View{
		ID:         a.ID,
		HospitalID: a.HospitalID,
		AlertType:  a.AlertType,
		Resource:   a.Resource,
		Message:    a.Message,
		Severity:   a.Severity,
		IsResolved: a.IsResolved,
		ResolvedBy: a.ResolvedBy,
		ResolvedAt: a.ResolvedAt,
		CreatedAt:  a.CreatedAt,
		Hospital:   hospitals.NewContact(a.Hospital),
	}
}

func NewViews(rows []models.Alert) []View {
	out := make([]View, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewView(row))
	}
	return out
}
