// Package staff resolves bearer tokens into hospital-scoped principals.
package staff

import (
	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/pkg/enums"
)

// Principal is an authenticated staff member and the hospital they act for.
type Principal struct {
	UserID       uuid.UUID       `json:"user_id"`
	Email        string          `json:"email,omitempty"`
	HospitalID   uuid.UUID       `json:"hospital_id"`
	HospitalName string          `json:"hospital_name"`
	Role         enums.StaffRole `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == enums.StaffRoleAdmin
}

// CanWrite reports whether the principal may mutate records of hospitalID.
func (p Principal) CanWrite(hospitalID uuid.UUID) bool {
	return p.HospitalID != uuid.Nil && p.HospitalID == hospitalID
}
