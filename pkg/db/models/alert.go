package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meditrack/meditrack-api/pkg/enums"
)

// Alert is raised by threshold classification and resolved at most once.
// Resource names the bed type or blood group the alert concerns.
type Alert struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID uuid.UUID       `gorm:"column:hospital_id;type:uuid;not null;index" json:"hospital_id"`
	AlertType  enums.AlertType `gorm:"column:alert_type;not null" json:"alert_type"`
	Resource   string          `gorm:"column:resource" json:"resource,omitempty"`
	Message    string          `gorm:"column:message;not null" json:"message"`
	Severity   enums.Severity  `gorm:"column:severity;not null" json:"severity"`
	IsResolved bool            `gorm:"column:is_resolved;not null;default:false" json:"is_resolved"`
	ResolvedBy *uuid.UUID      `gorm:"column:resolved_by;type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time      `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (Alert) TableName() string { return "alerts" }

func (a *Alert) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
