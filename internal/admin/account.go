package admin

import (
	"context"
	"strings"

	"github.com/krugstergaming/Greenhouse/internal/gateway"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/identity"
)

const minPasswordLength = 8

// Login authenticates with email/password and starts an admin session.
func (c *Console) Login(ctx context.Context, email, password string) error {
	result, err := c.backend.AdminLogin(ctx, email, password)
	if err != nil {
		return err
	}
	if result.AccessToken == "" || result.User == nil {
		return errors.New(errors.CodeUnauthorized, "login refused")
	}

	id := identity.Identity{
		UserID:         result.User.UserID,
		Email:          result.User.Email,
		Name:           result.User.Name,
		ProfilePicture: result.User.ProfilePicture,
	}
	// Admins never see the terms gate.
	_, err = c.sessions.Login(ctx, id, result.AccessToken, true)
	return err
}

// SetupNeeded reports whether first-time admin setup is still pending.
func (c *Console) SetupNeeded(ctx context.Context) (bool, error) {
	check, err := c.backend.AdminSetupCheck(ctx)
	if err != nil {
		return false, err
	}
	return check.FirstTimeSetup, nil
}

// Setup creates the single admin account.
func (c *Console) Setup(ctx context.Context, name, email, password, confirm string) error {
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return errors.New(errors.CodeValidation, "name and email are required")
	}
	if err := c.backend.AdminSetup(ctx, name, email, password); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.dialogs.ShowSuccess("Admin account created. You can sign in now.")
	return nil
}

// ProfileUpdate is the edited profile. Empty fields are left unchanged.
type ProfileUpdate struct {
	CurrentEmail string
	NewName      string
	NewEmail     string
	NewPassword  string
}

// UpdateProfile applies the edit. Email and password changes require
// the current password, verified through a prompt; an email change is
// additionally confirmed before anything is sent.
func (c *Console) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	sensitive := update.NewEmail != "" || update.NewPassword != ""
	if update.NewPassword != "" && len(update.NewPassword) < minPasswordLength {
		return errors.New(errors.CodeValidation, "password must be at least 8 characters")
	}

	if sensitive {
		password, ok, err := c.dialogs.Prompt(ctx, "Verify password", "Enter your current password to continue.", "Current password")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		verified, err := c.backend.VerifyAdminPassword(ctx, update.CurrentEmail, password)
		if err != nil {
			return err
		}
		if !verified {
			c.dialogs.ShowError("Current password is incorrect.")
			return errors.New(errors.CodeUnauthorized, "current password rejected")
		}
	}

	if update.NewEmail != "" {
		ok, err := c.dialogs.Confirm(ctx, "Change email",
			"You will sign in with "+update.NewEmail+" from now on. Continue?")
		if err != nil || !ok {
			return err
		}
	}

	err := c.backend.UpdateAdminProfile(ctx, gateway.AdminProfileUpdate{
		CurrentEmail: update.CurrentEmail,
		NewName:      update.NewName,
		NewEmail:     update.NewEmail,
		NewPassword:  update.NewPassword,
	})
	if err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.dialogs.ShowSuccess("Profile updated")
	return nil
}

// ForgotPassword requests a reset link for the admin email.
func (c *Console) ForgotPassword(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errors.New(errors.CodeValidation, "email is required")
	}
	result, err := c.backend.ForgotAdminPassword(ctx, email)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// ResetPassword completes the recovery flow with the token from the
// reset link.
func (c *Console) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if token == "" {
		return errors.New(errors.CodeValidation, "reset token is missing")
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}
	if err := c.backend.ResetAdminPassword(ctx, token, password); err != nil {
		c.dialogs.ShowError(errorMessage(err))
		return err
	}
	c.dialogs.ShowSuccess("Password reset. Sign in with the new password.")
	return nil
}

func checkNewPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return errors.New(errors.CodeValidation, "password must be at least 8 characters")
	}
	if password != confirm {
		return errors.New(errors.CodeValidation, "passwords do not match")
	}
	return nil
}
