package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/krugstergaming/Greenhouse/pkg/types"
)

func (c *Client) Users(ctx context.Context) ([]types.User, error) {
	var out []types.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users", authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetUserStatus suspends or reactivates an account. The backend keys
// users by their Google id here, not the internal user id.
func (c *Client) SetUserStatus(ctx context.Context, googleID string, active bool) error {
	query := url.Values{"is_active": {strconv.FormatBool(active)}}
	path := fmt.Sprintf("/users/%s/status", url.PathEscape(googleID))
	return c.do(ctx, call{method: http.MethodPut, path: path, query: query.Encode(), authed: true}, nil)
}

// DeleteUser permanently removes the account and everything it owns.
func (c *Client) DeleteUser(ctx context.Context, googleID string) error {
	path := fmt.Sprintf("/admin/users/%s", url.PathEscape(googleID))
	return c.do(ctx, call{method: http.MethodDelete, path: path, authed: true}, nil)
}

func (c *Client) PendingItems(ctx context.Context) ([]types.Item, error) {
	return c.adminItems(ctx, "/admin/items/pending")
}

func (c *Client) ApprovedItems(ctx context.Context) ([]types.Item, error) {
	return c.adminItems(ctx, "/admin/items/approved")
}

func (c *Client) RejectedItems(ctx context.Context) ([]types.Item, error) {
	return c.adminItems(ctx, "/admin/items/rejected")
}

func (c *Client) adminItems(ctx context.Context, path string) ([]types.Item, error) {
	var out []types.Item
	if err := c.do(ctx, call{method: http.MethodGet, path: path, authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApproveItem(ctx context.Context, itemID string) error {
	path := fmt.Sprintf("/admin/items/%s/approve", url.PathEscape(itemID))
	return c.do(ctx, call{method: http.MethodPut, path: path, authed: true}, nil)
}

func (c *Client) RejectItem(ctx context.Context, itemID, reason string) error {
	body, err := jsonBody(map[string]string{"reason": reason})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/admin/items/%s/reject", url.PathEscape(itemID))
	return c.do(ctx, call{method: http.MethodPut, path: path, body: body, contentType: "application/json", authed: true}, nil)
}

func (c *Client) Locations(ctx context.Context) ([]types.Location, error) {
	var out []types.Location
	if err := c.do(ctx, call{method: http.MethodGet, path: "/locations"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLocation(ctx context.Context, name, description string) (*types.LocationCreateResult, error) {
	body, err := jsonBody(map[string]any{"name": name, "description": description, "is_active": true})
	if err != nil {
		return nil, err
	}
	var out types.LocationCreateResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/admin/locations", body: body, contentType: "application/json", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLocation(ctx context.Context, locationID string) error {
	path := fmt.Sprintf("/admin/locations/%s", url.PathEscape(locationID))
	return c.do(ctx, call{method: http.MethodDelete, path: path, authed: true}, nil)
}

func (c *Client) TermsContent(ctx context.Context) (*types.TermsContent, error) {
	var out types.TermsContent
	if err := c.do(ctx, call{method: http.MethodGet, path: "/terms-content"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTermsContent(ctx context.Context, content string) error {
	body, err := jsonBody(map[string]string{"content": content})
	if err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPut, path: "/admin/terms-content", body: body, contentType: "application/json", authed: true}, nil)
}
