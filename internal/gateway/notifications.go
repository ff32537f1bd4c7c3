package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/krugstergaming/Greenhouse/pkg/types"
)

func (c *Client) Notifications(ctx context.Context) ([]types.Notification, error) {
	var out []types.Notification
	if err := c.do(ctx, call{method: http.MethodGet, path: "/notifications", authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	path := fmt.Sprintf("/notifications/%s/read", url.PathEscape(notificationID))
	return c.do(ctx, call{method: http.MethodPut, path: path, authed: true}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/notifications/mark-all-read", authed: true}, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out types.UnreadCount
	if err := c.do(ctx, call{method: http.MethodGet, path: "/notifications/unread-count", authed: true}, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}
