package identity

import (
	"strings"

	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// Identity is the canonical reference for the signed-in user. The
// backend aliases the same person under user_id, google_id, and email
// depending on the record; every ownership, claim, and sender decision
// goes through the matchers below so the alias list lives in one place.
type Identity struct {
	UserID         string `json:"user_id"`
	GoogleID       string `json:"google_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

// Key returns the stable per-identity key used for locally-scoped flags
// such as terms acceptance.
func (id Identity) Key() string {
	if id.UserID != "" {
		return id.UserID
	}
	return id.GoogleID
}

// IsZero reports whether no identity is present.
func (id Identity) IsZero() bool {
	return id.UserID == "" && id.GoogleID == "" && id.Email == ""
}

func (id Identity) matchesRef(refID, refEmail string) bool {
	if id.IsZero() {
		return false
	}
	if refEmail != "" && strings.EqualFold(refEmail, id.Email) {
		return true
	}
	if refID != "" && (refID == id.UserID || refID == id.GoogleID) {
		return true
	}
	// Some legacy records carry the user id in the email column.
	if refEmail != "" && refEmail == id.UserID {
		return true
	}
	return false
}

// Owns reports whether the identity posted the item.
func (id Identity) Owns(item types.Item) bool {
	return id.matchesRef(item.OwnerID, item.OwnerEmail)
}

// Claimed reports whether the identity is the item's claimant.
func (id Identity) Claimed(item types.Item) bool {
	return id.matchesRef(item.ClaimedBy, item.ClaimantEmail)
}

// Sent reports whether the identity authored the chat message.
func (id Identity) Sent(msg types.ChatMessage) bool {
	return id.matchesRef(msg.SenderID, msg.SenderEmail)
}

// Party reports whether the identity may participate in the item's
// chat, which is open to the owner and the claimant only.
func (id Identity) Party(item types.Item) bool {
	return id.Owns(item) || id.Claimed(item)
}
