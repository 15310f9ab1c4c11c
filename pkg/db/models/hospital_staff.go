package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/enums"
)

// HospitalStaff links an identity provider user to the hospital they may update.
type HospitalStaff struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	HospitalID uuid.UUID       `gorm:"column:hospital_id;type:uuid;not null"`
	Role       enums.StaffRole `gorm:"column:role;not null;default:'staff'"`
	FullName   string          `gorm:"column:full_name"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`

	Hospital Hospital `gorm:"foreignKey:HospitalID"`
}

func (HospitalStaff) TableName() string { return "hospital_staff" }

func (s *HospitalStaff) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
