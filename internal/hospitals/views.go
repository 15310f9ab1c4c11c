package hospitals

import (
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/db/models"
)

// View is the wire shape of a hospital with coordinates as JSON numbers.
type View struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	State     string    `json:"state"`
	Pincode   *string   `json:"pincode,omitempty"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewView(h models.Hospital) View {
	v := View{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		City:      h.City,
		District:  h.District,
		State:     h.State,
		Pincode:   h.Pincode,
		Phone:     h.Phone,
		Email:     h.Email,
		IsActive:  h.IsActive,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
	if h.Latitude.Valid {
		lat := h.Latitude.Decimal.InexactFloat64()
		v.Latitude = &lat
	}
	if h.Longitude.Valid {
		lon := h.Longitude.Decimal.InexactFloat64()
		v.Longitude = &lon
	}
	return v
}

// Contact is the hospital fragment attached to alert listings.
type Contact struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	City  string    `json:"city"`
	Phone string    `json:"phone"`
}

func NewContact(h *models.Hospital) *Contact {
	if h == nil {
		return nil
	}
	return &Contact{ID: h.ID, Name: h.Name, City: h.City, Phone: h.Phone}
}

// Summary adds capacity aggregates to a hospital listing row.
type Summary struct {
	View
	TotalBedsAvailable   int `json:"total_beds_available"`
	TotalBeds            int `json:"total_beds"`
	BloodGroupsAvailable int `json:"blood_groups_available"`
}

func NewSummary(h models.Hospital) Summary {
	s := Summary{View: NewView(h)}
	for _, bed := range h.BedInventory {
		s.TotalBedsAvailable += bed.AvailableBeds
		s.TotalBeds += bed.TotalBeds
	}
	for _, blood := range h.BloodInventory {
		if blood.UnitsAvailable > 0 {
			s.BloodGroupsAvailable++
		}
	}
	return s
}

// Detail is a single hospital with everything attached to it.
type Detail struct {
	View
	BedInventory   []models.BedInventory   `json:"bed_inventory"`
	BloodInventory []models.BloodInventory `json:"blood_inventory"`
	Alerts         []models.Alert          `json:"alerts"`
}

func NewDetail(h models.Hospital) Detail {
	d := Detail{
		View:           NewView(h),
		BedInventory:   h.BedInventory,
		BloodInventory: h.BloodInventory,
		Alerts:         h.Alerts,
	}
	if d.BedInventory == nil {
		d.BedInventory = []models.BedInventory{}
	}
	if d.BloodInventory == nil {
		d.BloodInventory = []models.BloodInventory{}
	}
	if d.Alerts == nil {
		d.Alerts = []models.Alert{}
	}
	return d
}
