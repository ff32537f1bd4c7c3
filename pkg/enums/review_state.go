package enums

import "fmt"

// ReviewState is the moderation state of a posted item.
type ReviewState string

const (
	ReviewStatePending  ReviewState = "pending"
	ReviewStateApproved ReviewState = "approved"
	ReviewStateRejected ReviewState = "rejected"
)

var validReviewStates = []ReviewState{
	ReviewStatePending,
	ReviewStateApproved,
	ReviewStateRejected,
}

// String implements fmt.Stringer.
func (s ReviewState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReviewState.
func (s ReviewState) IsValid() bool {
	for _, candidate := range validReviewStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReviewState converts raw input into a ReviewState.
func ParseReviewState(value string) (ReviewState, error) {
	for _, candidate := range validReviewStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review state %q", value)
}
