package feed

import (
	"strings"

	"github.com/krugstergaming/Greenhouse/pkg/identity"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// Tab selects which slice of the feed is shown.
type Tab string

const (
	TabAll     Tab = "all"
	TabMine    Tab = "my-items"
	TabClaimed Tab = "claimed"
)

// Query is the full filter state. Zero values mean "no constraint"
// except Tab, which defaults to TabAll.
type Query struct {
	Tab      Tab
	Search   string
	Category string
	Location string
}

// Filter is a pure function of the inputs; it never mutates items.
// The all tab hides the viewer's own listings, my-items shows only
// them, claimed shows the items the viewer has claimed. Search matches
// name, comments, or category case-insensitively; category and location
// are exact and compound.
func Filter(items []types.Item, q Query, viewer identity.Identity) []types.Item {
	tab := q.Tab
	if tab == "" {
		tab = TabAll
	}

	out := make([]types.Item, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, item := range items {
		switch tab {
		case TabMine:
			if !viewer.Owns(item) {
				continue
			}
		case TabClaimed:
			if !viewer.Claimed(item) {
				continue
			}
		default:
			if viewer.Owns(item) {
				continue
			}
		}

		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if q.Category != "" && item.Category != q.Category {
			continue
		}
		if q.Location != "" && item.Location != q.Location {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item types.Item, search string) bool {
	return strings.Contains(strings.ToLower(item.Name), search) ||
		strings.Contains(strings.ToLower(item.Comments), search) ||
		strings.Contains(strings.ToLower(item.Category), search)
}
