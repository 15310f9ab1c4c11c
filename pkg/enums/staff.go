package enums

import "fmt"

// StaffRole is the role a hospital staff member holds.
type StaffRole string

const (
	StaffRoleStaff StaffRole = "staff"
	StaffRoleAdmin StaffRole = "admin"
)

func (r StaffRole) String() string {
	return string(r)
}

func (r StaffRole) IsValid() bool {
	return r == StaffRoleStaff || r == StaffRoleAdmin
}

func ParseStaffRole(value string) (StaffRole, error) {
	r := StaffRole(value)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid staff role %q", value)
	}
	return r, nil
}

// UpdateType tags an update log entry with the inventory it touched.
type UpdateType string

const (
	UpdateTypeBed   UpdateType = "bed"
	UpdateTypeBlood UpdateType = "blood"
)

func (u UpdateType) String() string {
	return string(u)
}

func (u UpdateType) IsValid() bool {
	return u == UpdateTypeBed || u == UpdateTypeBlood
}
