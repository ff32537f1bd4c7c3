// Package admin drives the review console: moderation queues, user
// management, locations, terms content, and the admin account flows.
package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/krugstergaming/Greenhouse/internal/dialog"
	"github.com/krugstergaming/Greenhouse/internal/gateway"
	"github.com/krugstergaming/Greenhouse/internal/session"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/identity"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/krugstergaming/Greenhouse/pkg/types"
	"go.uber.org/multierr"
)

// Backend is the slice of the gateway the console consumes.
type Backend interface {
	PendingItems(ctx context.Context) ([]types.Item, error)
	ApprovedItems(ctx context.Context) ([]types.Item, error)
	RejectedItems(ctx context.Context) ([]types.Item, error)
	Users(ctx context.Context) ([]types.User, error)
	Locations(ctx context.Context) ([]types.Location, error)
	ApproveItem(ctx context.Context, itemID string) error
	RejectItem(ctx context.Context, itemID, reason string) error
	SetUserStatus(ctx context.Context, googleID string, active bool) error
	DeleteUser(ctx context.Context, googleID string) error
	CreateLocation(ctx context.Context, name, description string) (*types.LocationCreateResult, error)
	DeleteLocation(ctx context.Context, locationID string) error
	TermsContent(ctx context.Context) (*types.TermsContent, error)
	UpdateTermsContent(ctx context.Context, content string) error

	AdminLogin(ctx context.Context, email, password string) (*types.LoginResult, error)
	AdminSetupCheck(ctx context.Context) (*types.SetupCheck, error)
	AdminSetup(ctx context.Context, name, email, password string) error
	AdminProfile(ctx context.Context) (*types.User, error)
	UpdateAdminProfile(ctx context.Context, req gateway.AdminProfileUpdate) error
	VerifyAdminPassword(ctx context.Context, email, password string) (bool, error)
	ForgotAdminPassword(ctx context.Context, email string) (*types.MessageResult, error)
	ResetAdminPassword(ctx context.Context, token, newPassword string) error
}

// Dialogs is the confirm/prompt/toast surface.
type Dialogs interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
	Prompt(ctx context.Context, title, message, placeholder string) (string, bool, error)
	ShowSuccess(msg string) dialog.Toast
	ShowError(msg string) dialog.Toast
}

// Starter establishes a session after an admin login.
type Starter interface {
	Login(ctx context.Context, id identity.Identity, credential string, isAdmin bool) (*session.TermsGate, error)
}

// Snapshot is the console's five-collection view. It is replaced
// wholesale; a failed load leaves the previous snapshot standing.
type Snapshot struct {
	Pending   []types.Item
	Approved  []types.Item
	Rejected  []types.Item
	Users     []types.User
	Locations []types.Location
}

type Console struct {
	backend  Backend
	dialogs  Dialogs
	sessions Starter
	log      *logger.Logger

	mu   sync.Mutex
	snap Snapshot
}

func New(backend Backend, dialogs Dialogs, sessions Starter, logg *logger.Logger) (*Console, error) {
	if backend == nil {
		return nil, fmt.Errorf("admin: backend is required")
	}
	if dialogs == nil {
		return nil, fmt.Errorf("admin: dialog surface is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("admin: session starter is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("admin: logger is required")
	}
	return &Console{backend: backend, dialogs: dialogs, sessions: sessions, log: logg}, nil
}

// Load fetches all five collections concurrently. If any fetch fails,
// none of them are applied; the failure is logged, never surfaced.
func (c *Console) Load(ctx context.Context) {
	var next Snapshot
	var wg sync.WaitGroup
	errs := make([]error, 5)

	wg.Add(5)
	go func() {
		defer wg.Done()
		next.Pending, errs[0] = c.backend.PendingItems(ctx)
	}()
	go func() {
		defer wg.Done()
		next.Approved, errs[1] = c.backend.ApprovedItems(ctx)
	}()
	go func() {
		defer wg.Done()
		next.Rejected, errs[2] = c.backend.RejectedItems(ctx)
	}()
	go func() {
		defer wg.Done()
		next.Users, errs[3] = c.backend.Users(ctx)
	}()
	go func() {
		defer wg.Done()
		next.Locations, errs[4] = c.backend.Locations(ctx)
	}()
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		c.log.Error(ctx, "loading admin console", err)
		return
	}

	c.mu.Lock()
	c.snap = next
	c.mu.Unlock()
}

// Snapshot returns the last fully applied view.
func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Approve removes the item from the pending queue immediately, calls
// the backend, and reloads regardless of the outcome.
func (c *Console) Approve(ctx context.Context, item types.Item) error {
	c.mu.Lock()
	c.snap.Pending = removeItem(c.snap.Pending, item.ItemID)
	c.mu.Unlock()

	err := c.backend.ApproveItem(ctx, item.ItemID)
	if err != nil {
		c.dialogs.ShowError(errorMessage(err))
	} else {
		c.dialogs.ShowSuccess(fmt.Sprintf("%q approved", item.Name))
	}
	c.Load(ctx)
	return err
}

// Reject asks for a reason through the prompt. A cancelled prompt or an
// empty reason makes no call.
func (c *Console) Reject(ctx context.Context, item types.Item) error {
	reason, ok, err := c.dialogs.Prompt(ctx, "Reject item", fmt.Sprintf("Why is %q being rejected?", item.Name), "Reason")
	if err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if !ok || reason == "" {
		return nil
	}
	if err := c.backend.RejectItem(ctx, item.ItemID, reason); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.dialogs.ShowSuccess(fmt.Sprintf("%q rejected", item.Name))
	c.Load(ctx)
	return nil
}

// SetUserStatus suspends or reactivates an account after confirmation,
// flipping the local row optimistically before the reload.
func (c *Console) SetUserStatus(ctx context.Context, user types.User, active bool) error {
	action := "Suspend"
	if active {
		action = "Activate"
	}
	ok, err := c.dialogs.Confirm(ctx, action+" user", fmt.Sprintf("%s %s's account?", action, user.Name))
	if err != nil || !ok {
		return err
	}

	c.mu.Lock()
	users := make([]types.User, len(c.snap.Users))
	copy(users, c.snap.Users)
	for i := range users {
		if users[i].GoogleID == user.GoogleID {
			users[i].IsActive = active
		}
	}
	c.snap.Users = users
	c.mu.Unlock()

	if err := c.backend.SetUserStatus(ctx, user.GoogleID, active); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		c.Load(ctx)
		return err
	}
	c.Load(ctx)
	return nil
}

// DeleteUser walks the two-step guard: a confirm describing the
// cascading deletion, then a prompt whose value must be exactly
// "DELETE <user name>". Any mismatch surfaces an error and makes no
// call.
func (c *Console) DeleteUser(ctx context.Context, user types.User) error {
	ok, err := c.dialogs.Confirm(ctx, "Delete user",
		fmt.Sprintf("Permanently delete %s? All of their items, claims, chats, and notifications will be deleted too.", user.Name))
	if err != nil || !ok {
		return err
	}

	expected := "DELETE " + user.Name
	phrase, ok, err := c.dialogs.Prompt(ctx, "Confirm deletion",
		fmt.Sprintf("Type %q to confirm.", expected), expected)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if phrase != expected {
		c.dialogs.ShowError("Confirmation phrase did not match. User was not deleted.")
		return errors.New(errors.CodeValidation, "confirmation phrase mismatch")
	}

	if err := c.backend.DeleteUser(ctx, user.GoogleID); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.dialogs.ShowSuccess(fmt.Sprintf("%s deleted", user.Name))
	c.Load(ctx)
	return nil
}

// CreateLocation inserts the new location locally before the reload
// confirms it.
func (c *Console) CreateLocation(ctx context.Context, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New(errors.CodeValidation, "location name is required")
	}

	result, err := c.backend.CreateLocation(ctx, name, description)
	if err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}

	c.mu.Lock()
	c.snap.Locations = append(c.snap.Locations, types.Location{
		LocationID:  result.LocationID,
		Name:        name,
		Description: description,
	})
	c.mu.Unlock()

	c.dialogs.ShowSuccess(fmt.Sprintf("%q added", name))
	c.Load(ctx)
	return nil
}

// DeleteLocation removes a pickup point after confirmation.
func (c *Console) DeleteLocation(ctx context.Context, loc types.Location) error {
	ok, err := c.dialogs.Confirm(ctx, "Delete location", fmt.Sprintf("Delete %q?", loc.Name))
	if err != nil || !ok {
		return err
	}
	if err := c.backend.DeleteLocation(ctx, loc.LocationID); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.Load(ctx)
	return nil
}

// Terms loads the terms-of-service document for editing.
func (c *Console) Terms(ctx context.Context) (string, error) {
	content, err := c.backend.TermsContent(ctx)
	if err != nil {
		return "", err
	}
	return content.Content, nil
}

// SaveTerms stores the edited document.
func (c *Console) SaveTerms(ctx context.Context, content string) error {
	if err := c.backend.UpdateTermsContent(ctx, content); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.dialogs.ShowSuccess("Terms updated")
	return nil
}

func removeItem(items []types.Item, id string) []types.Item {
	out := make([]types.Item, 0, len(items))
	for _, it := range items {
		if it.ItemID != id {
			out = append(out, it)
		}
	}
	return out
}

func errorMessage(err error) string {
	if typed := errors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return "Something went wrong. Please try again."
}
