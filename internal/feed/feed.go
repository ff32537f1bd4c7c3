// Package feed drives the item newsfeed: loading the browse data,
// filtering it per viewer, and running the claim/delete/chat actions.
package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/krugstergaming/Greenhouse/internal/dialog"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/identity"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/krugstergaming/Greenhouse/pkg/types"
	"go.uber.org/multierr"
)

// Backend is the slice of the gateway the feed consumes.
type Backend interface {
	ListItems(ctx context.Context, approvedOnly bool) ([]types.Item, error)
	MyClaims(ctx context.Context) ([]types.Item, error)
	Locations(ctx context.Context) ([]types.Location, error)
	Categories(ctx context.Context) ([]string, error)
	ClaimItem(ctx context.Context, itemID string) error
	CompleteItem(ctx context.Context, itemID string) error
	DeleteItem(ctx context.Context, itemID string) error
	ChatMessages(ctx context.Context, itemID string) ([]types.ChatMessage, error)
	SendChatMessage(ctx context.Context, itemID, message string) (*types.MessageResult, error)
	Recommendations(ctx context.Context) (string, error)
}

// Dialogs is the confirm/toast surface the feed talks to.
type Dialogs interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
	ShowSuccess(msg string) dialog.Toast
	ShowError(msg string) dialog.Toast
}

// Viewer supplies the current identity for ownership decisions.
type Viewer interface {
	Identity() identity.Identity
}

// Snapshot is one consistent view of the browse data. Generation
// increases every time a load completes, failed or not.
type Snapshot struct {
	Items      []types.Item
	Claims     []types.Item
	Locations  []types.Location
	Categories []string
	Generation uint64
}

type Service struct {
	backend Backend
	dialogs Dialogs
	viewer  Viewer
	log     *logger.Logger

	mu   sync.Mutex
	snap Snapshot
}

func New(backend Backend, dialogs Dialogs, viewer Viewer, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("feed: backend is required")
	}
	if dialogs == nil {
		return nil, fmt.Errorf("feed: dialog surface is required")
	}
	if viewer == nil {
		return nil, fmt.Errorf("feed: viewer is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("feed: logger is required")
	}
	return &Service{backend: backend, dialogs: dialogs, viewer: viewer, log: logg}, nil
}

// Load fetches items, claims, locations, and categories concurrently.
// Any fetch failure empties every collection for this generation; the
// failure is logged, never surfaced. Overlapping loads race and the one
// that resolves last wins.
func (s *Service) Load(ctx context.Context) {
	var (
		items      []types.Item
		claims     []types.Item
		locations  []types.Location
		categories []string
	)
	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		items, errs[0] = s.backend.ListItems(ctx, true)
	}()
	go func() {
		defer wg.Done()
		claims, errs[1] = s.backend.MyClaims(ctx)
	}()
	go func() {
		defer wg.Done()
		locations, errs[2] = s.backend.Locations(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, errs[3] = s.backend.Categories(ctx)
	}()
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		s.log.Error(ctx, "loading feed", err)
		items, claims, locations, categories = nil, nil, nil, nil
	}

	s.mu.Lock()
	s.snap = Snapshot{
		Items:      items,
		Claims:     claims,
		Locations:  locations,
		Categories: categories,
		Generation: s.snap.Generation + 1,
	}
	s.mu.Unlock()
}

// Snapshot returns the last applied view.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Visible applies the query to the current snapshot for the viewer.
// The claimed tab also scans the dedicated claims list, which carries
// items the approved-only listing omits, such as completed exchanges.
func (s *Service) Visible(q Query) []types.Item {
	snap := s.Snapshot()
	scan := snap.Items
	if q.Tab == TabClaimed {
		scan = mergeByID(snap.Items, snap.Claims)
	}
	return Filter(scan, q, s.viewer.Identity())
}

func mergeByID(base, extra []types.Item) []types.Item {
	seen := make(map[string]struct{}, len(base))
	out := make([]types.Item, 0, len(base)+len(extra))
	for _, item := range base {
		seen[item.ItemID] = struct{}{}
		out = append(out, item)
	}
	for _, item := range extra {
		if _, ok := seen[item.ItemID]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Claim asks for confirmation, claims the item, and reloads. A declined
// confirm makes no call at all.
func (s *Service) Claim(ctx context.Context, item types.Item) error {
	if s.viewer.Identity().Owns(item) {
		return errors.New(errors.CodeValidation, "you cannot claim your own item")
	}
	ok, err := s.dialogs.Confirm(ctx, "Claim item", fmt.Sprintf("Claim %q?", item.Name))
	if err != nil || !ok {
		return err
	}
	if err := s.backend.ClaimItem(ctx, item.ItemID); err != nil {
		s.dialogs.ShowError(errorMessage(err))
		return err
	}
	s.dialogs.ShowSuccess("Item claimed successfully")
	s.Load(ctx)
	return nil
}

// Delete removes the viewer's own listing after confirmation.
func (s *Service) Delete(ctx context.Context, item types.Item) error {
	if !s.viewer.Identity().Owns(item) {
		return errors.New(errors.CodeForbidden, "only the owner can delete an item")
	}
	ok, err := s.dialogs.Confirm(ctx, "Delete item", fmt.Sprintf("Delete %q? This cannot be undone.", item.Name))
	if err != nil || !ok {
		return err
	}
	if err := s.backend.DeleteItem(ctx, item.ItemID); err != nil {
		s.dialogs.ShowError(errorMessage(err))
		return err
	}
	s.dialogs.ShowSuccess("Item deleted")
	s.Load(ctx)
	return nil
}

// Complete marks a claimed exchange as finished.
func (s *Service) Complete(ctx context.Context, item types.Item) error {
	if !s.viewer.Identity().Party(item) {
		return errors.New(errors.CodeForbidden, "only the owner or claimant can complete an exchange")
	}
	ok, err := s.dialogs.Confirm(ctx, "Complete exchange", fmt.Sprintf("Mark %q as completed?", item.Name))
	if err != nil || !ok {
		return err
	}
	if err := s.backend.CompleteItem(ctx, item.ItemID); err != nil {
		s.dialogs.ShowError(errorMessage(err))
		return err
	}
	s.dialogs.ShowSuccess("Exchange completed")
	s.Load(ctx)
	return nil
}

// OpenChat loads the item conversation, oldest first. Chat is only open
// to the owner and the claimant of a claimed item.
func (s *Service) OpenChat(ctx context.Context, item types.Item) ([]types.ChatMessage, error) {
	if !s.viewer.Identity().Party(item) {
		return nil, errors.New(errors.CodeForbidden, "chat is limited to the owner and claimant")
	}
	msgs, err := s.backend.ChatMessages(ctx, item.ItemID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp < msgs[j].Timestamp
	})
	return msgs, nil
}

// SendMessage posts to the item conversation.
func (s *Service) SendMessage(ctx context.Context, item types.Item, text string) error {
	if !s.viewer.Identity().Party(item) {
		return errors.New(errors.CodeForbidden, "chat is limited to the owner and claimant")
	}
	if text == "" {
		return errors.New(errors.CodeValidation, "message is empty")
	}
	if _, err := s.backend.SendChatMessage(ctx, item.ItemID, text); err != nil {
		s.dialogs.ShowError(errorMessage(err))
		return err
	}
	return nil
}

// Recommendations fetches the AI corner suggestions.
func (s *Service) Recommendations(ctx context.Context) (string, error) {
	text, err := s.backend.Recommendations(ctx)
	if err != nil {
		s.dialogs.ShowError(errorMessage(err))
		return "", err
	}
	return text, nil
}

func errorMessage(err error) string {
	if typed := errors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return "Something went wrong. Please try again."
}
