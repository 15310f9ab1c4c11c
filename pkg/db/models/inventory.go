package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/enums"
)

// BedInventory holds availability for one bed type at one hospital.
// Version increments on every write and backs conditional updates.
type BedInventory struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID    uuid.UUID     `gorm:"column:hospital_id;type:uuid;not null;index" json:"hospital_id"`
	BedType       enums.BedType `gorm:"column:bed_type;not null" json:"bed_type"`
	TotalBeds     int           `gorm:"column:total_beds;not null" json:"total_beds"`
	AvailableBeds int           `gorm:"column:available_beds;not null" json:"available_beds"`
	Version       int64         `gorm:"column:version;not null;default:1" json:"version"`
	UpdatedBy     *uuid.UUID    `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	LastUpdated   time.Time     `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`

	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (BedInventory) TableName() string { return "bed_inventory" }

func (b *BedInventory) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Version == 0 {
		b.Version = 1
	}
	return nil
}

// BloodInventory holds stock for one blood group at one hospital.
type BloodInventory struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID     uuid.UUID        `gorm:"column:hospital_id;type:uuid;not null;index" json:"hospital_id"`
	BloodGroup     enums.BloodGroup `gorm:"column:blood_group;not null" json:"blood_group"`
	UnitsAvailable int              `gorm:"column:units_available;not null" json:"units_available"`
	UnitsReserved  int              `gorm:"column:units_reserved;not null;default:0" json:"units_reserved"`
	Version        int64            `gorm:"column:version;not null;default:1" json:"version"`
	UpdatedBy      *uuid.UUID       `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	LastUpdated    time.Time        `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`

	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (BloodInventory) TableName() string { return "blood_inventory" }

func (b *BloodInventory) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Version == 0 {
		b.Version = 1
	}
	return nil
}

// UpdateLog is the append-only audit trail of inventory mutations.
type UpdateLog struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID   uuid.UUID        `gorm:"column:hospital_id;type:uuid;not null;index" json:"hospital_id"`
	UpdateType   enums.UpdateType `gorm:"column:update_type;not null" json:"update_type"`
	FieldChanged string           `gorm:"column:field_changed;not null" json:"field_changed"`
	OldValue     int              `gorm:"column:old_value" json:"old_value"`
	NewValue     int              `gorm:"column:new_value" json:"new_value"`
	ChangedBy    uuid.UUID        `gorm:"column:changed_by;type:uuid;not null" json:"changed_by"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UpdateLog) TableName() string { return "update_logs" }

func (u *UpdateLog) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
