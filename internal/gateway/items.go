package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// ItemImage is an upload attached to a new item.
type ItemImage struct {
	Filename string
	Content  []byte
}

// ItemCreate is the multipart payload for a new listing. Images are
// required on create; edits never resubmit them.
type ItemCreate struct {
	Name         string
	Quantity     int
	Category     string
	Location     string
	ExpiryDate   string
	DurationDays int
	Comments     string
	ContactInfo  string
	Images       []ItemImage
}

// ItemUpdate carries only the fields being changed.
type ItemUpdate struct {
	Name         string `json:"name,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	Category     string `json:"category,omitempty"`
	Location     string `json:"location,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	Comments     string `json:"comments,omitempty"`
	ContactInfo  string `json:"contact_info,omitempty"`
}

func (c *Client) ListItems(ctx context.Context, approvedOnly bool) ([]types.Item, error) {
	query := url.Values{"approved_only": {strconv.FormatBool(approvedOnly)}}
	var out []types.Item
	if err := c.do(ctx, call{method: http.MethodGet, path: "/items", query: query.Encode()}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetItem(ctx context.Context, itemID string) (*types.Item, error) {
	var out types.Item
	if err := c.do(ctx, call{method: http.MethodGet, path: "/items/" + url.PathEscape(itemID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateItem(ctx context.Context, req ItemCreate) (*types.MessageResult, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"name":          req.Name,
		"quantity":      strconv.Itoa(req.Quantity),
		"category":      req.Category,
		"location":      req.Location,
		"expiry_date":   req.ExpiryDate,
		"duration_days": strconv.Itoa(req.DurationDays),
		"comments":      req.Comments,
		"contact_info":  req.ContactInfo,
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "writing multipart field")
		}
	}
	for _, img := range req.Images {
		part, err := w.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "writing multipart image")
		}
		if _, err := part.Write(img.Content); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "writing multipart image")
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "finalizing multipart body")
	}

	var out types.MessageResult
	if err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/items",
		body:        buf,
		contentType: w.FormDataContentType(),
		authed:      true,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID string, req ItemUpdate) error {
	body, err := jsonBody(req)
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		method:      http.MethodPut,
		path:        "/items/" + url.PathEscape(itemID),
		body:        body,
		contentType: "application/json",
		authed:      true,
	}, nil)
}

func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/items/" + url.PathEscape(itemID), authed: true}, nil)
}

func (c *Client) ClaimItem(ctx context.Context, itemID string) error {
	return c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("/items/%s/claim", url.PathEscape(itemID)), authed: true}, nil)
}

func (c *Client) CompleteItem(ctx context.Context, itemID string) error {
	return c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/items/%s/complete", url.PathEscape(itemID)), authed: true}, nil)
}

func (c *Client) MyClaims(ctx context.Context) ([]types.Item, error) {
	var out []types.Item
	if err := c.do(ctx, call{method: http.MethodGet, path: "/my-claims", authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, call{method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations asks the AI corner for suggestions over the current
// approved inventory.
func (c *Client) Recommendations(ctx context.Context) (string, error) {
	var out types.Recommendations
	if err := c.do(ctx, call{method: http.MethodPost, path: "/get-ai-recommendations", authed: true}, &out); err != nil {
		return "", err
	}
	if err := refused(out.Success, out.Error); err != nil {
		return "", err
	}
	return out.Recommendations, nil
}
