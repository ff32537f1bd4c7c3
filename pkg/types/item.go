package types

import "github.com/krugstergaming/Greenhouse/pkg/enums"

// Item is an exchange listing as the backend serializes it. Owner and
// claimant references arrive under several aliased fields; callers must
// never compare them directly and go through pkg/identity instead.
type Item struct {
	ItemID          string           `json:"item_id"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	Category        string           `json:"category"`
	Location        string           `json:"location"`
	OwnerID         string           `json:"owner_id"`
	OwnerName       string           `json:"owner_name"`
	OwnerEmail      string           `json:"owner_email"`
	ExpiryDate      string           `json:"expiry_date"`
	DurationDays    int              `json:"duration_days"`
	Comments        string           `json:"comments"`
	ContactInfo     string           `json:"contact_info"`
	ImageURLs       []string         `json:"image_urls"`
	Status          enums.ItemStatus `json:"status"`
	CreatedAt       string           `json:"created_at"`
	Approved        bool             `json:"approved"`
	ClaimedBy       string           `json:"claimed_by"`
	ClaimantEmail   string           `json:"claimant_email"`
	ClaimExpiresAt  string           `json:"claim_expires_at"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

// ReviewState derives the moderation bucket the item belongs to.
func (i Item) ReviewState() enums.ReviewState {
	switch {
	case i.Approved:
		return enums.ReviewStateApproved
	case i.RejectionReason != "":
		return enums.ReviewStateRejected
	default:
		return enums.ReviewStatePending
	}
}
