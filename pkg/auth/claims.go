package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
)

// AccessTokenClaims is the claim set the backend mints into access
// tokens. The client reads the payload for routing decisions only; the
// signature is the server's to verify, so parsing here is unverified.
type AccessTokenClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// DecodeAccessToken parses the token payload without verifying the
// signature. Tokens that cannot be parsed are treated as absent
// sessions rather than hard failures.
func DecodeAccessToken(token string) (*AccessTokenClaims, error) {
	if token == "" {
		return nil, errors.New(errors.CodeSession, "access token is empty")
	}

	claims := &AccessTokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(errors.CodeSession, err, "decoding access token")
	}
	return claims, nil
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without an exp claim are treated as live; the backend rejects
// them with 401 if it disagrees.
func (c *AccessTokenClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(now)
}
