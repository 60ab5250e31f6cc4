package enums

import "fmt"

// FrequencyKind describes how often a recurring fee applies.
type FrequencyKind string

const (
	FrequencyKindMonthly       FrequencyKind = "monthly"
	FrequencyKindEveryNMonths  FrequencyKind = "every_n_months"
	FrequencyKindBiannual      FrequencyKind = "biannual"
	FrequencyKindAnnual        FrequencyKind = "annual"
	FrequencyKindSpecificMonth FrequencyKind = "specific_month"
	FrequencyKindNone          FrequencyKind = "none"
)

var validFrequencyKinds = []FrequencyKind{
	FrequencyKindMonthly,
	FrequencyKindEveryNMonths,
	FrequencyKindBiannual,
	FrequencyKindAnnual,
	FrequencyKindSpecificMonth,
	FrequencyKindNone,
}

// String implements fmt.Stringer.
func (f FrequencyKind) String() string {
	return string(f)
}

// IsValid reports whether the value is known.
func (f FrequencyKind) IsValid() bool {
	for _, candidate := range validFrequencyKinds {
		if candidate == f {
			return true
		}
	}
	return false
}

// RequiresParameter reports whether the kind needs a frequency parameter.
func (f FrequencyKind) RequiresParameter() bool {
	return f == FrequencyKindEveryNMonths || f == FrequencyKindSpecificMonth
}

// ParseFrequencyKind converts raw input into a FrequencyKind.
func ParseFrequencyKind(value string) (FrequencyKind, error) {
	for _, candidate := range validFrequencyKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid frequency kind %q", value)
}
