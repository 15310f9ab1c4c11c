package enums

import "fmt"

// BloodGroup is one of the eight ABO/Rh groups.
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
)

var validBloodGroups = []BloodGroup{
	BloodGroupAPos,
	BloodGroupANeg,
	BloodGroupBPos,
	BloodGroupBNeg,
	BloodGroupOPos,
	BloodGroupONeg,
	BloodGroupABPos,
	BloodGroupABNeg,
}

func (g BloodGroup) String() string {
	return string(g)
}

func (g BloodGroup) IsValid() bool {
	for _, candidate := range validBloodGroups {
		if candidate == g {
			return true
		}
	}
	return false
}

func ParseBloodGroup(value string) (BloodGroup, error) {
	for _, candidate := range validBloodGroups {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid blood group %q", value)
}

func BloodGroups() []BloodGroup {
	out := make([]BloodGroup, len(validBloodGroups))
	copy(out, validBloodGroups)
	return out
}
