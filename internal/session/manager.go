// Package session guards the authenticated state: login persistence,
// the one-time terms gate, two-phase logout, and startup restore.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/krugstergaming/Greenhouse/internal/routes"
	"github.com/krugstergaming/Greenhouse/pkg/auth"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/identity"
	"github.com/krugstergaming/Greenhouse/pkg/localstore"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// Store is the slice of the local store the session needs.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	ReplaceSession(ctx context.Context, token, user, isAdmin string) error
	ClearSession(ctx context.Context) error
}

// TermsFetcher loads the terms-of-service document for the gate.
type TermsFetcher interface {
	TermsContent(ctx context.Context) (*types.TermsContent, error)
}

// TermsGate is returned from Login when the identity has not yet
// accepted the terms. The caller presents Content and completes the
// gate with AcceptTerms or DeclineTerms.
type TermsGate struct {
	Content string
}

// State is the restored or live session snapshot.
type State struct {
	Identity identity.Identity
	IsAdmin  bool
}

type Manager struct {
	mu    sync.Mutex
	store Store
	terms TermsFetcher
	log   *logger.Logger
	now   func() time.Time

	identity      identity.Identity
	token         string
	isAdmin       bool
	active        bool
	pendingLogout bool
	termsPending  bool
}

func New(store Store, terms TermsFetcher, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	if terms == nil {
		return nil, fmt.Errorf("session: terms fetcher is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("session: logger is required")
	}
	return &Manager{store: store, terms: terms, log: logg, now: time.Now}, nil
}

// Login establishes the session, persisting credential, identity, and
// role flag in one write. Non-admin identities that have never accepted
// the terms get a TermsGate back; admins and returning users get nil.
func (m *Manager) Login(ctx context.Context, id identity.Identity, credential string, isAdmin bool) (*TermsGate, error) {
	if credential == "" {
		return nil, errors.New(errors.CodeSession, "login without credential")
	}
	if id.IsZero() {
		return nil, errors.New(errors.CodeSession, "login without identity")
	}

	userJSON, err := json.Marshal(id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "serializing identity")
	}
	if err := m.store.ReplaceSession(ctx, credential, string(userJSON), strconv.FormatBool(isAdmin)); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.identity = id
	m.token = credential
	m.isAdmin = isAdmin
	m.active = true
	m.pendingLogout = false
	m.termsPending = false
	m.mu.Unlock()

	m.log.Info(m.log.WithUserID(ctx, id.Key()), "session established")

	if isAdmin {
		return nil, nil
	}
	accepted, err := m.termsAccepted(ctx, id)
	if err != nil {
		return nil, err
	}
	if accepted {
		return nil, nil
	}

	m.mu.Lock()
	m.termsPending = true
	m.mu.Unlock()

	gate := &TermsGate{}
	if content, err := m.terms.TermsContent(ctx); err != nil {
		// The gate still shows; the document text is best effort.
		m.log.Error(ctx, "loading terms content", err)
	} else {
		gate.Content = content.Content
	}
	return gate, nil
}

func (m *Manager) termsAccepted(ctx context.Context, id identity.Identity) (bool, error) {
	val, ok, err := m.store.Get(ctx, localstore.TermsKey(id.Key()))
	if err != nil {
		return false, err
	}
	return ok && val == "true", nil
}

// AcceptTerms records acceptance for the current identity and lifts the
// gate. Acceptance is per account and survives logout.
func (m *Manager) AcceptTerms(ctx context.Context) error {
	m.mu.Lock()
	id := m.identity
	m.mu.Unlock()
	if id.IsZero() {
		return errors.New(errors.CodeSession, "no active session")
	}
	if err := m.store.Set(ctx, localstore.TermsKey(id.Key()), "true"); err != nil {
		return err
	}
	m.mu.Lock()
	m.termsPending = false
	m.mu.Unlock()
	return nil
}

// DeclineTerms refuses the gate, which ends the session immediately.
func (m *Manager) DeclineTerms(ctx context.Context) error {
	return m.ConfirmLogout(ctx)
}

// Logout only requests a logout. Nothing clears until ConfirmLogout.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return
	}
	m.pendingLogout = true
}

// CancelLogout drops the pending request, leaving the session intact.
func (m *Manager) CancelLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingLogout = false
}

// PendingLogout reports whether a logout confirmation is outstanding.
func (m *Manager) PendingLogout() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingLogout
}

// ConfirmLogout clears identity, credential, and role flag together.
func (m *Manager) ConfirmLogout(ctx context.Context) error {
	if err := m.store.ClearSession(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.identity = identity.Identity{}
	m.token = ""
	m.isAdmin = false
	m.active = false
	m.pendingLogout = false
	m.termsPending = false
	m.mu.Unlock()
	m.log.Info(ctx, "session cleared")
	return nil
}

// Restore recovers the session at startup. No stored credential means a
// logged-out start (nil, nil). A credential that fails to decode or has
// expired tears the stored session down and reports CodeSession.
func (m *Manager) Restore(ctx context.Context) (*State, error) {
	token, ok, err := m.store.Get(ctx, localstore.KeyToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, nil
	}

	claims, err := auth.DecodeAccessToken(token)
	if err != nil {
		return nil, m.invalidate(ctx, err)
	}
	if claims.Expired(m.now()) {
		return nil, m.invalidate(ctx, errors.New(errors.CodeSession, "stored credential expired"))
	}

	userJSON, ok, err := m.store.Get(ctx, localstore.KeyUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, m.invalidate(ctx, errors.New(errors.CodeSession, "stored session missing identity"))
	}
	var id identity.Identity
	if err := json.Unmarshal([]byte(userJSON), &id); err != nil {
		return nil, m.invalidate(ctx, errors.Wrap(errors.CodeSession, err, "decoding stored identity"))
	}

	// The role comes from the credential's claim, not the stored flag;
	// the flag is only a hint for pre-token UI decisions.
	m.mu.Lock()
	m.identity = id
	m.token = token
	m.isAdmin = claims.IsAdmin
	m.active = true
	m.pendingLogout = false
	m.mu.Unlock()

	m.log.Info(m.log.WithUserID(ctx, id.Key()), "session restored")
	return &State{Identity: id, IsAdmin: claims.IsAdmin}, nil
}

func (m *Manager) invalidate(ctx context.Context, cause error) error {
	if err := m.store.ClearSession(ctx); err != nil {
		m.log.Error(ctx, "tearing down invalid session", err)
	}
	if typed := errors.As(cause); typed != nil {
		return typed
	}
	return errors.Wrap(errors.CodeSession, cause, "invalid stored session")
}

// Token implements the gateway token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Identity returns the signed-in identity, zero when logged out.
func (m *Manager) Identity() identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAdmin
}

func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// TermsPending reports whether the terms gate is blocking the session.
func (m *Manager) TermsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.termsPending
}

// Authorize resolves the requested route against the current session.
func (m *Manager) Authorize(requested routes.Route) routes.Route {
	m.mu.Lock()
	s := routes.Session{Authenticated: m.active, IsAdmin: m.isAdmin}
	m.mu.Unlock()
	return routes.Resolve(requested, s)
}
