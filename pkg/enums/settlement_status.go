package enums

import "fmt"

// SettlementStatus tracks the lifecycle of a monthly settlement.
type SettlementStatus string

const (
	SettlementStatusIssued SettlementStatus = "issued"
	SettlementStatusPaid   SettlementStatus = "paid"
	SettlementStatusUnpaid SettlementStatus = "unpaid"
)

var validSettlementStatuses = []SettlementStatus{
	SettlementStatusIssued,
	SettlementStatusPaid,
	SettlementStatusUnpaid,
}

// String implements fmt.Stringer.
func (s SettlementStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SettlementStatus) IsValid() bool {
	for _, candidate := range validSettlementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the settlement can still transition.
func (s SettlementStatus) IsTerminal() bool {
	return s == SettlementStatusPaid
}

// ParseSettlementStatus converts raw input into a SettlementStatus.
func ParseSettlementStatus(value string) (SettlementStatus, error) {
	for _, candidate := range validSettlementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settlement status %q", value)
}
