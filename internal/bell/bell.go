// Package bell keeps the notification dropdown fresh: a fixed-interval
// poll plus the read-marking operations.
package bell

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// Backend is the slice of the gateway the bell consumes.
type Backend interface {
	Notifications(ctx context.Context) ([]types.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

// Session gates polling; nothing is fetched while logged out.
type Session interface {
	Active() bool
}

type Bell struct {
	backend  Backend
	sessions Session
	log      *logger.Logger
	interval time.Duration

	mu            sync.Mutex
	notifications []types.Notification
	unread        int
}

func New(cfg config.NotificationsConfig, backend Backend, sessions Session, logg *logger.Logger) (*Bell, error) {
	if backend == nil {
		return nil, fmt.Errorf("bell: backend is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("bell: session is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("bell: logger is required")
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Bell{backend: backend, sessions: sessions, log: logg, interval: interval}, nil
}

// Run polls until the context ends. The first refresh happens
// immediately.
func (b *Bell) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Refresh(ctx)
		}
	}
}

// Refresh fetches the list and the unread count. Failures are logged
// and the previous state stands; the next tick tries again.
func (b *Bell) Refresh(ctx context.Context) {
	if !b.sessions.Active() {
		return
	}

	notifications, err := b.backend.Notifications(ctx)
	if err != nil {
		b.log.Error(ctx, "polling notifications", err)
		return
	}
	unread, err := b.backend.UnreadCount(ctx)
	if err != nil {
		b.log.Error(ctx, "polling unread count", err)
		return
	}

	b.mu.Lock()
	b.notifications = notifications
	b.unread = unread
	b.mu.Unlock()
}

// Notifications returns the last polled list.
func (b *Bell) Notifications() []types.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.Notification, len(b.notifications))
	copy(out, b.notifications)
	return out
}

// Unread returns the last known unread count.
func (b *Bell) Unread() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// MarkRead flips the entry locally right away and floors the counter at
// zero. The backend call is best effort; a failure is logged and the
// local flip stays.
func (b *Bell) MarkRead(ctx context.Context, notificationID string) {
	b.mu.Lock()
	for i := range b.notifications {
		if b.notifications[i].NotificationID == notificationID && !b.notifications[i].IsRead {
			b.notifications[i].IsRead = true
			if b.unread > 0 {
				b.unread--
			}
		}
	}
	b.mu.Unlock()

	if err := b.backend.MarkNotificationRead(ctx, notificationID); err != nil {
		b.log.Error(ctx, "marking notification read", err)
	}
}

// MarkAllRead flips local state only after the backend accepts the
// call. A failure changes nothing.
func (b *Bell) MarkAllRead(ctx context.Context) error {
	if err := b.backend.MarkAllNotificationsRead(ctx); err != nil {
		b.log.Error(ctx, "marking all notifications read", err)
		return err
	}

	b.mu.Lock()
	for i := range b.notifications {
		b.notifications[i].IsRead = true
	}
	b.unread = 0
	b.mu.Unlock()
	return nil
}
