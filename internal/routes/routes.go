package routes

import (
	"net/url"
	"strings"
)

// Route is a client-side navigation target.
type Route string

const (
	Login       Route = "/login"
	Dashboard   Route = "/dashboard"
	AdminPortal Route = "/admin-portal"
	AdminSetup  Route = "/admin-setup"
	AdminForgot Route = "/admin-forgot-password"
	AdminReset  Route = "/admin-reset-password"

	// AdminLogin is the unguessable operator path.
	AdminLogin Route = "/admin-portal-xyz123"
)

// Session is the slice of session state routing decisions depend on.
type Session struct {
	Authenticated bool
	IsAdmin       bool
}

// Public reports whether the route is reachable without a session.
func Public(r Route) bool {
	switch r {
	case Login, AdminLogin, AdminSetup, AdminForgot, AdminReset:
		return true
	}
	return false
}

// AdminOnly reports whether the route requires the admin role.
func AdminOnly(r Route) bool {
	return r == AdminPortal
}

// Resolve maps a requested route onto the route the client actually
// lands on given the session. Unknown paths fall through to the landing
// route for the session.
func Resolve(requested Route, s Session) Route {
	if !s.Authenticated {
		if Public(requested) {
			return requested
		}
		return Login
	}
	if AdminOnly(requested) && !s.IsAdmin {
		return Dashboard
	}
	switch requested {
	case Dashboard, AdminPortal:
		return requested
	case Login, AdminLogin:
		// Signed-in users skip the login screens.
		return landing(s)
	case AdminSetup, AdminForgot, AdminReset:
		return requested
	}
	return landing(s)
}

func landing(s Session) Route {
	if s.IsAdmin {
		return AdminPortal
	}
	return Dashboard
}

// ResetToken extracts the password-reset token from an
// admin-reset-password URL. Empty when the URL is not a reset link or
// carries no token.
func ResetToken(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(u.Path, string(AdminReset)) {
		return ""
	}
	return u.Query().Get("token")
}
