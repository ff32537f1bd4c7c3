package feed

import (
	"context"
	"sync"
	"testing"

	"github.com/krugstergaming/Greenhouse/internal/dialog"
	"github.com/krugstergaming/Greenhouse/internal/testutil"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/identity"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

type fakeBackend struct {
	items      []types.Item
	claims     []types.Item
	locations  []types.Location
	categories []string

	itemsErr  error
	claimsErr error

	claimed   []string
	deleted   []string
	completed []string
	sent      []string
	messages  []types.ChatMessage
	recs      string
	recsErr   error
}

func (f *fakeBackend) ListItems(context.Context, bool) ([]types.Item, error) {
	return f.items, f.itemsErr
}
func (f *fakeBackend) MyClaims(context.Context) ([]types.Item, error) {
	return f.claims, f.claimsErr
}
func (f *fakeBackend) Locations(context.Context) ([]types.Location, error) {
	return f.locations, nil
}
func (f *fakeBackend) Categories(context.Context) ([]string, error) {
	return f.categories, nil
}
func (f *fakeBackend) ClaimItem(_ context.Context, id string) error {
	f.claimed = append(f.claimed, id)
	return nil
}
func (f *fakeBackend) CompleteItem(_ context.Context, id string) error {
	f.completed = append(f.completed, id)
	return nil
}
func (f *fakeBackend) DeleteItem(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeBackend) ChatMessages(context.Context, string) ([]types.ChatMessage, error) {
	return f.messages, nil
}
func (f *fakeBackend) SendChatMessage(_ context.Context, _ string, msg string) (*types.MessageResult, error) {
	f.sent = append(f.sent, msg)
	return &types.MessageResult{Message: "sent"}, nil
}
func (f *fakeBackend) Recommendations(context.Context) (string, error) {
	return f.recs, f.recsErr
}

type fakeDialogs struct {
	answer    bool
	confirms  int
	successes []string
	errs      []string
}

func (f *fakeDialogs) Confirm(context.Context, string, string) (bool, error) {
	f.confirms++
	return f.answer, nil
}
func (f *fakeDialogs) ShowSuccess(msg string) dialog.Toast {
	f.successes = append(f.successes, msg)
	return dialog.Toast{}
}
func (f *fakeDialogs) ShowError(msg string) dialog.Toast {
	f.errs = append(f.errs, msg)
	return dialog.Toast{}
}

type fakeViewer struct{ id identity.Identity }

func (f *fakeViewer) Identity() identity.Identity { return f.id }

func newService(t *testing.T, backend *fakeBackend, dialogs *fakeDialogs) *Service {
	t.Helper()
	svc, err := New(backend, dialogs, &fakeViewer{id: viewer}, testutil.Logger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return svc
}

func TestLoadPopulatesSnapshot(t *testing.T) {
	backend := &fakeBackend{
		items:      []types.Item{{ItemID: "i-1"}},
		claims:     []types.Item{{ItemID: "c-1"}},
		locations:  []types.Location{{LocationID: "l-1", Name: "Main Library"}},
		categories: []string{"Cardboard"},
	}
	svc := newService(t, backend, &fakeDialogs{})

	svc.Load(context.Background())
	snap := svc.Snapshot()
	if len(snap.Items) != 1 || len(snap.Claims) != 1 || len(snap.Locations) != 1 || len(snap.Categories) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Generation != 1 {
		t.Fatalf("generation = %d, want 1", snap.Generation)
	}
}

func TestLoadFailureEmptiesEverythingButAdvances(t *testing.T) {
	backend := &fakeBackend{
		items:      []types.Item{{ItemID: "i-1"}},
		locations:  []types.Location{{LocationID: "l-1"}},
		categories: []string{"Cardboard"},
		claimsErr:  errors.New(errors.CodeTransport, "down"),
	}
	svc := newService(t, backend, &fakeDialogs{})

	svc.Load(context.Background())
	snap := svc.Snapshot()
	if snap.Items != nil || snap.Claims != nil || snap.Locations != nil || snap.Categories != nil {
		t.Fatalf("partial snapshot must be emptied, got %+v", snap)
	}
	if snap.Generation != 1 {
		t.Fatalf("generation = %d, failed loads still advance", snap.Generation)
	}

	// A later successful load replaces the empty snapshot.
	backend.claimsErr = nil
	backend.claims = []types.Item{{ItemID: "c-1"}}
	svc.Load(context.Background())
	snap = svc.Snapshot()
	if len(snap.Items) != 1 || snap.Generation != 2 {
		t.Fatalf("recovery snapshot = %+v", snap)
	}
}

func TestVisibleClaimedTabIncludesClaimsList(t *testing.T) {
	backend := &fakeBackend{
		items: []types.Item{
			{ItemID: "i-1", OwnerID: "u-9", ClaimedBy: "u-1"},
			{ItemID: "i-2", OwnerID: "u-9"},
		},
		claims: []types.Item{
			{ItemID: "i-1", OwnerID: "u-9", ClaimedBy: "u-1"},
			{ItemID: "i-9", OwnerID: "u-9", ClaimedBy: "u-1"},
		},
	}
	svc := newService(t, backend, &fakeDialogs{})
	svc.Load(context.Background())

	got := svc.Visible(Query{Tab: TabClaimed})
	if len(got) != 2 || got[0].ItemID != "i-1" || got[1].ItemID != "i-9" {
		t.Fatalf("claimed tab = %v", got)
	}

	// The claims-only item stays off the other tabs.
	if all := svc.Visible(Query{Tab: TabAll}); len(all) != 2 {
		t.Fatalf("all tab = %v", all)
	}
}

// gatedBackend blocks each ListItems call on its own release channel so
// a test can interleave concurrent loads deterministically.
type gatedBackend struct {
	fakeBackend

	mu      sync.Mutex
	calls   int
	started []chan struct{}
	release []chan []types.Item
}

func (g *gatedBackend) ListItems(context.Context, bool) ([]types.Item, error) {
	g.mu.Lock()
	i := g.calls
	g.calls++
	g.mu.Unlock()
	close(g.started[i])
	return <-g.release[i], nil
}

func TestOverlappingLoadsLastResolvedWins(t *testing.T) {
	backend := &gatedBackend{
		started: []chan struct{}{make(chan struct{}), make(chan struct{})},
		release: []chan []types.Item{make(chan []types.Item), make(chan []types.Item)},
	}
	svc, err := New(backend, &fakeDialogs{}, &fakeViewer{id: viewer}, testutil.Logger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	firstDone := make(chan struct{})
	go func() {
		svc.Load(context.Background())
		close(firstDone)
	}()
	<-backend.started[0]

	secondDone := make(chan struct{})
	go func() {
		svc.Load(context.Background())
		close(secondDone)
	}()
	<-backend.started[1]

	// The second-issued load resolves first and applies generation 1.
	backend.release[1] <- []types.Item{{ItemID: "from-second"}}
	<-secondDone
	if snap := svc.Snapshot(); snap.Generation != 1 || snap.Items[0].ItemID != "from-second" {
		t.Fatalf("after second load resolved: %+v", snap)
	}

	// The first-issued load resolves last and replaces the snapshot
	// wholesale, even though it was issued earlier.
	backend.release[0] <- []types.Item{{ItemID: "from-first"}}
	<-firstDone
	snap := svc.Snapshot()
	if snap.Generation != 2 {
		t.Fatalf("generation = %d, want 2", snap.Generation)
	}
	if len(snap.Items) != 1 || snap.Items[0].ItemID != "from-first" {
		t.Fatalf("items = %v, the last load to resolve must win", snap.Items)
	}
}

func TestClaimConfirmedCallsAndReloads(t *testing.T) {
	backend := &fakeBackend{items: []types.Item{{ItemID: "i-1", OwnerID: "u-9"}}}
	dialogs := &fakeDialogs{answer: true}
	svc := newService(t, backend, dialogs)

	item := types.Item{ItemID: "i-1", Name: "Jars", OwnerID: "u-9"}
	if err := svc.Claim(context.Background(), item); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if len(backend.claimed) != 1 || backend.claimed[0] != "i-1" {
		t.Fatalf("claimed = %v", backend.claimed)
	}
	if svc.Snapshot().Generation != 1 {
		t.Fatal("claim must trigger a reload")
	}
	if len(dialogs.successes) != 1 {
		t.Fatal("expected a success toast")
	}
}

func TestClaimDeclinedMakesNoCall(t *testing.T) {
	backend := &fakeBackend{}
	svc := newService(t, backend, &fakeDialogs{answer: false})

	if err := svc.Claim(context.Background(), types.Item{ItemID: "i-1", OwnerID: "u-9"}); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if len(backend.claimed) != 0 {
		t.Fatal("declined confirm must not call the backend")
	}
}

func TestClaimOwnItemRefused(t *testing.T) {
	backend := &fakeBackend{}
	dialogs := &fakeDialogs{answer: true}
	svc := newService(t, backend, dialogs)

	err := svc.Claim(context.Background(), types.Item{ItemID: "mine", OwnerEmail: "dana@campus.edu"})
	if errors.CodeOf(err) != errors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
	if dialogs.confirms != 0 || len(backend.claimed) != 0 {
		t.Fatal("own-item claim must short-circuit before the dialog")
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	backend := &fakeBackend{}
	svc := newService(t, backend, &fakeDialogs{answer: true})

	err := svc.Delete(context.Background(), types.Item{ItemID: "i-1", OwnerID: "u-9"})
	if errors.CodeOf(err) != errors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}

	if err := svc.Delete(context.Background(), types.Item{ItemID: "mine", OwnerEmail: "dana@campus.edu"}); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(backend.deleted) != 1 {
		t.Fatalf("deleted = %v", backend.deleted)
	}
}

func TestChatLimitedToParties(t *testing.T) {
	backend := &fakeBackend{messages: []types.ChatMessage{
		{MessageID: "m-2", Message: "later", Timestamp: "2026-08-29T12:00:00"},
		{MessageID: "m-1", Message: "earlier", Timestamp: "2026-08-29T09:00:00"},
	}}
	svc := newService(t, backend, &fakeDialogs{})

	if _, err := svc.OpenChat(context.Background(), types.Item{ItemID: "i-1", OwnerID: "u-9", ClaimedBy: "u-8"}); errors.CodeOf(err) != errors.CodeForbidden {
		t.Fatalf("err = %v, want forbidden for non-party", err)
	}

	msgs, err := svc.OpenChat(context.Background(), types.Item{ItemID: "i-1", OwnerID: "u-9", ClaimedBy: "u-1"})
	if err != nil {
		t.Fatalf("OpenChat() error: %v", err)
	}
	if msgs[0].MessageID != "m-1" || msgs[1].MessageID != "m-2" {
		t.Fatalf("messages not timestamp-ascending: %v", msgs)
	}
}

func TestSendMessageValidation(t *testing.T) {
	backend := &fakeBackend{}
	svc := newService(t, backend, &fakeDialogs{})
	item := types.Item{ItemID: "i-1", OwnerID: "u-9", ClaimedBy: "u-1"}

	if err := svc.SendMessage(context.Background(), item, ""); errors.CodeOf(err) != errors.CodeValidation {
		t.Fatalf("err = %v, want validation for empty message", err)
	}
	if err := svc.SendMessage(context.Background(), item, "still available?"); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if len(backend.sent) != 1 {
		t.Fatalf("sent = %v", backend.sent)
	}
}

func TestRecommendationsSurfacesErrorToast(t *testing.T) {
	backend := &fakeBackend{recsErr: errors.New(errors.CodeBackend, "AI service not available")}
	dialogs := &fakeDialogs{}
	svc := newService(t, backend, dialogs)

	if _, err := svc.Recommendations(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(dialogs.errs) != 1 || dialogs.errs[0] != "AI service not available" {
		t.Fatalf("error toasts = %v", dialogs.errs)
	}
}
