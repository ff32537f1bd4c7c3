package enums

import "fmt"

// ItemStatus tracks where an item sits in its exchange lifecycle.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusClaimed   ItemStatus = "claimed"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusExpired   ItemStatus = "expired"
)

var validItemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusClaimed,
	ItemStatusCompleted,
	ItemStatusExpired,
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
