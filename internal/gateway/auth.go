package gateway

import (
	"context"
	"net/http"

	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// GoogleLoginRequest carries the decoded Google profile to the backend,
// which upserts the user and mints the session credential.
type GoogleLoginRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	GoogleID       string `json:"google_id"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func (c *Client) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*types.LoginResult, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}
	var out types.LoginResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: body, contentType: "application/json"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (*types.LoginResult, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var out types.LoginResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/admin/login", body: body, contentType: "application/json"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminSetupCheck(ctx context.Context) (*types.SetupCheck, error) {
	var out types.SetupCheck
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/setup/check"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminSetup(ctx context.Context, name, email, password string) error {
	body, err := jsonBody(map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return err
	}
	var out types.OperationResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/admin/setup", body: body, contentType: "application/json"}, &out); err != nil {
		return err
	}
	return refused(out.Success, out.Error)
}

func (c *Client) AdminProfile(ctx context.Context) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/profile", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminProfileUpdate mutates only the fields that are set. Email and
// password changes are expected to be verified by the caller first.
type AdminProfileUpdate struct {
	CurrentEmail string `json:"current_email"`
	NewName      string `json:"new_name,omitempty"`
	NewEmail     string `json:"new_email,omitempty"`
	NewPassword  string `json:"new_password,omitempty"`
}

func (c *Client) UpdateAdminProfile(ctx context.Context, req AdminProfileUpdate) error {
	body, err := jsonBody(req)
	if err != nil {
		return err
	}
	var out types.OperationResult
	if err := c.do(ctx, call{method: http.MethodPut, path: "/admin/profile", body: body, contentType: "application/json", authed: true}, &out); err != nil {
		return err
	}
	return refused(out.Success, out.Error)
}

// VerifyAdminPassword checks the current password before sensitive
// profile changes. A wrong password is a false result, not an error.
func (c *Client) VerifyAdminPassword(ctx context.Context, email, password string) (bool, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return false, err
	}
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/admin/verify-password", body: body, contentType: "application/json", authed: true}, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

func (c *Client) ForgotAdminPassword(ctx context.Context, email string) (*types.MessageResult, error) {
	body, err := jsonBody(map[string]string{"email": email})
	if err != nil {
		return nil, err
	}
	var out types.MessageResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/admin/forgot-password", body: body, contentType: "application/json"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetAdminPassword(ctx context.Context, token, newPassword string) error {
	body, err := jsonBody(map[string]string{"token": token, "new_password": newPassword})
	if err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/admin/reset-password", body: body, contentType: "application/json"}, nil)
}
