package enums

import "fmt"

// ComponentStatus marks whether a settlement line item contributes to the total.
// Inactive components stay in the stored list so the line-item history survives.
type ComponentStatus string

const (
	ComponentStatusActive   ComponentStatus = "active"
	ComponentStatusInactive ComponentStatus = "inactive"
)

var validComponentStatuses = []ComponentStatus{
	ComponentStatusActive,
	ComponentStatusInactive,
}

// String implements fmt.Stringer.
func (c ComponentStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ComponentStatus) IsValid() bool {
	for _, candidate := range validComponentStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComponentStatus converts raw input into a ComponentStatus.
func ParseComponentStatus(value string) (ComponentStatus, error) {
	for _, candidate := range validComponentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid component status %q", value)
}
