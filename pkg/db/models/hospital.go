package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Hospital is provisioned administratively and only read by the core.
type Hospital struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string              `gorm:"column:name;not null" json:"name"`
	Address   string              `gorm:"column:address" json:"address"`
	City      string              `gorm:"column:city;not null;index" json:"city"`
	District  string              `gorm:"column:district" json:"district"`
	State     string              `gorm:"column:state" json:"state"`
	Pincode   *string             `gorm:"column:pincode" json:"pincode,omitempty"`
	Latitude  decimal.NullDecimal `gorm:"column:latitude;type:numeric(10,7)" json:"latitude"`
	Longitude decimal.NullDecimal `gorm:"column:longitude;type:numeric(10,7)" json:"longitude"`
	Phone     string              `gorm:"column:phone" json:"phone"`
	Email     *string             `gorm:"column:email" json:"email,omitempty"`
	IsActive  bool                `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	BedInventory   []BedInventory   `gorm:"foreignKey:HospitalID" json:"bed_inventory,omitempty"`
	BloodInventory []BloodInventory `gorm:"foreignKey:HospitalID" json:"blood_inventory,omitempty"`
	Alerts         []Alert          `gorm:"foreignKey:HospitalID" json:"alerts,omitempty"`
}

func (Hospital) TableName() string { return "hospitals" }

func (h *Hospital) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Coordinates returns the hospital location in degrees and whether both parts are set.
func (h Hospital) Coordinates() (lat, lon float64, ok bool) {
	if !h.Latitude.Valid || !h.Longitude.Valid {
		return 0, 0, false
	}
	return h.Latitude.Decimal.InexactFloat64(), h.Longitude.Decimal.InexactFloat64(), true
}
