package enums

import "fmt"

// BedType tags a hospital's bed inventory row.
type BedType string

const (
	BedTypeICU        BedType = "ICU"
	BedTypeGeneral    BedType = "general"
	BedTypePaediatric BedType = "paediatric"
	BedTypeMaternity  BedType = "maternity"
	BedTypeIsolation  BedType = "isolation"
	BedTypeEmergency  BedType = "emergency"
	BedTypeVentilator BedType = "ventilator"
)

var validBedTypes = []BedType{
	BedTypeICU,
	BedTypeGeneral,
	BedTypePaediatric,
	BedTypeMaternity,
	BedTypeIsolation,
	BedTypeEmergency,
	BedTypeVentilator,
}

// String implements fmt.Stringer.
func (b BedType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BedType.
func (b BedType) IsValid() bool {
	for _, candidate := range validBedTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBedType converts raw input into a BedType. Matching is exact so that
// "ICU" and "icu" are not silently conflated.
func ParseBedType(value string) (BedType, error) {
	for _, candidate := range validBedTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bed type %q", value)
}

// BedTypes returns the full enumerated set in display order.
func BedTypes() []BedType {
	out := make([]BedType, len(validBedTypes))
	copy(out, validBedTypes)
	return out
}
