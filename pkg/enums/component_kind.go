package enums

import "fmt"

// ComponentKind identifies the variant of a settlement line item.
type ComponentKind string

const (
	ComponentKindRent  ComponentKind = "rent"
	ComponentKindMeter ComponentKind = "meter"
	ComponentKindOther ComponentKind = "other"
)

var validComponentKinds = []ComponentKind{
	ComponentKindRent,
	ComponentKindMeter,
	ComponentKindOther,
}

// String implements fmt.Stringer.
func (c ComponentKind) String() string {
	return string(c)
}

// IsMeter reports whether the component carries meter snapshot fields.
func (c ComponentKind) IsMeter() bool {
	return c == ComponentKindMeter
}

// IsValid reports whether the value is known.
func (c ComponentKind) IsValid() bool {
	for _, candidate := range validComponentKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComponentKind converts raw input into a ComponentKind.
func ParseComponentKind(value string) (ComponentKind, error) {
	for _, candidate := range validComponentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid component kind %q", value)
}
