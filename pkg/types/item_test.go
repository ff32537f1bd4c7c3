package types

import (
	"encoding/json"
	"testing"

	"github.com/krugstergaming/Greenhouse/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewStateDerivation(t *testing.T) {
	assert.Equal(t, enums.ReviewStateApproved, Item{Approved: true}.ReviewState())
	assert.Equal(t, enums.ReviewStateRejected, Item{RejectionReason: "blurry photos"}.ReviewState())
	assert.Equal(t, enums.ReviewStatePending, Item{}.ReviewState())

	// Approved wins even when a stale rejection reason is present.
	assert.Equal(t, enums.ReviewStateApproved, Item{Approved: true, RejectionReason: "old"}.ReviewState())
}

func TestItemDecodesBackendShape(t *testing.T) {
	payload := `{
		"item_id": "i-1",
		"name": "Glass jars",
		"quantity": 3,
		"category": "Glass Containers",
		"location": "Main Library",
		"owner_id": "u-9",
		"owner_email": "kim@campus.edu",
		"expiry_date": "2026-09-15",
		"duration_days": 7,
		"comments": "Clean jars with lids.",
		"image_urls": ["https://cdn.example.com/jars.jpg"],
		"status": "available",
		"approved": true,
		"claimed_by": "u-1",
		"claimant_email": "dana@campus.edu"
	}`

	var item Item
	require.NoError(t, json.Unmarshal([]byte(payload), &item))
	assert.Equal(t, "i-1", item.ItemID)
	assert.Equal(t, enums.ItemStatusAvailable, item.Status)
	assert.True(t, item.Status.IsValid())
	assert.Equal(t, []string{"https://cdn.example.com/jars.jpg"}, item.ImageURLs)
	assert.Equal(t, "u-1", item.ClaimedBy)
}
