// Package app assembles the client services into one runtime the
// embedding surface talks to.
package app

import (
	"context"
	"fmt"

	"github.com/krugstergaming/Greenhouse/internal/admin"
	"github.com/krugstergaming/Greenhouse/internal/bell"
	"github.com/krugstergaming/Greenhouse/internal/dialog"
	"github.com/krugstergaming/Greenhouse/internal/feed"
	"github.com/krugstergaming/Greenhouse/internal/gateway"
	"github.com/krugstergaming/Greenhouse/internal/googleauth"
	"github.com/krugstergaming/Greenhouse/internal/session"
	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/localstore"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
)

// Runtime is the fully wired client. Fields are the entry points the
// embedding UI binds to.
type Runtime struct {
	Sessions *session.Manager
	Gateway  *gateway.Client
	Dialogs  *dialog.Surface
	Feed     *feed.Service
	Admin    *admin.Console
	Google   *googleauth.Provider
	Bell     *bell.Bell

	store *localstore.Store
	log   *logger.Logger
}

// New wires every service against one store, one gateway, and one
// session manager.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("app: logger is required")
	}

	store, err := localstore.New(ctx, cfg.Store, logg)
	if err != nil {
		return nil, err
	}

	// The gateway pulls the bearer lazily so login and restore flow
	// through the same session instance it serves.
	var sessions *session.Manager
	api, err := gateway.New(cfg.API, gateway.TokenFunc(func() string { return sessions.Token() }), logg)
	if err != nil {
		return nil, err
	}

	sessions, err = session.New(store, api, logg)
	if err != nil {
		return nil, err
	}

	dialogs := dialog.New(logg)

	feedService, err := feed.New(api, dialogs, sessions, logg)
	if err != nil {
		return nil, err
	}

	console, err := admin.New(api, dialogs, sessions, logg)
	if err != nil {
		return nil, err
	}

	provider, err := googleauth.New(cfg.Google, api, sessions, logg)
	if err != nil {
		return nil, err
	}

	notifier, err := bell.New(cfg.Notifications, api, sessions, logg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Sessions: sessions,
		Gateway:  api,
		Dialogs:  dialogs,
		Feed:     feedService,
		Admin:    console,
		Google:   provider,
		Bell:     notifier,
		store:    store,
		log:      logg,
	}, nil
}

// Run restores the session, preloads the feed for a signed-in user, and
// polls notifications until the context ends.
func (r *Runtime) Run(ctx context.Context) error {
	state, err := r.Sessions.Restore(ctx)
	if err != nil {
		if errors.CodeOf(err) != errors.CodeSession {
			return err
		}
		r.log.Warn(ctx, "stored session was invalid and has been cleared")
	}

	if state != nil {
		ctx = r.log.WithUserID(ctx, state.Identity.Key())
		r.Feed.Load(ctx)
	}
	r.log.Info(ctx, "client runtime ready")

	r.Bell.Run(ctx)
	return nil
}

// Close releases the local store.
func (r *Runtime) Close() error {
	return r.store.Close()
}
