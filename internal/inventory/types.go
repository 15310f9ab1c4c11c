package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/internal/hospitals"
	"github.com/meditrack/meditrack-api/internal/staff"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
)

// BedMutation sets the available count of one bed inventory record.
type BedMutation struct {
	RecordID        uuid.UUID
	Available       *int
	ExpectedVersion *int64
	Principal       staff.Principal
}

// BloodMutation sets units on one blood inventory record. UnitsReserved is
// left unchanged when nil.
type BloodMutation struct {
	RecordID        uuid.UUID
	UnitsAvailable  *int
	UnitsReserved   *int
	ExpectedVersion *int64
	Principal       staff.Principal
}

// BedResult is the outcome of a successful bed mutation. Warnings name
// post-persist steps that failed without undoing the write.
type BedResult struct {
	Record   *models.BedInventory
	Alerts   []models.Alert
	Warnings []string
}

type BloodResult struct {
	Record   *models.BloodInventory
	Alerts   []models.Alert
	Warnings []string
}

// Warning step names.
const (
	WarnUpdateLog   = "update_log_failed"
	WarnAlertCreate = "alert_create_failed"
	WarnBroadcast   = "broadcast_failed"
)

type BedQuery struct {
	City         string
	BedType      string
	MinAvailable int
}

type BloodQuery struct {
	City       string
	BloodGroup string
	MinUnits   int
}

// BedView is one bed row inside a hospital grouping.
type BedView struct {
	ID            uuid.UUID     `json:"id"`
	BedType       enums.BedType `json:"bed_type"`
	TotalBeds     int           `json:"total_beds"`
	AvailableBeds int           `json:"available_beds"`
	Version       int64         `json:"version"`
	LastUpdated   time.Time     `json:"last_updated"`
}

type BloodView struct {
	ID             uuid.UUID        `json:"id"`
	BloodGroup     enums.BloodGroup `json:"blood_group"`
	UnitsAvailable int              `json:"units_available"`
	UnitsReserved  int              `json:"units_reserved"`
	Version        int64            `json:"version"`
	LastUpdated    time.Time        `json:"last_updated"`
}

type HospitalBeds struct {
	Hospital hospitals.View `json:"hospital"`
	Beds     []BedView      `json:"beds"`
}

type HospitalBlood struct {
	Hospital       hospitals.View `json:"hospital"`
	BloodInventory []BloodView    `json:"blood_inventory"`
}
