package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/krugstergaming/Greenhouse/pkg/types"
)

func (c *Client) ChatMessages(ctx context.Context, itemID string) ([]types.ChatMessage, error) {
	var out []types.ChatMessage
	path := fmt.Sprintf("/items/%s/chat/messages", url.PathEscape(itemID))
	if err := c.do(ctx, call{method: http.MethodGet, path: path, authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendChatMessage(ctx context.Context, itemID, message string) (*types.MessageResult, error) {
	body, err := jsonBody(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}
	var out types.MessageResult
	path := fmt.Sprintf("/items/%s/chat/messages", url.PathEscape(itemID))
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: body, contentType: "application/json", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
