// Package googleauth turns a Google ID token credential into an
// established session via the backend login exchange.
package googleauth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/krugstergaming/Greenhouse/internal/gateway"
	"github.com/krugstergaming/Greenhouse/internal/session"
	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/identity"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/krugstergaming/Greenhouse/pkg/types"
)

// Exchanger posts the decoded profile to the backend login endpoint.
type Exchanger interface {
	GoogleLogin(ctx context.Context, req gateway.GoogleLoginRequest) (*types.LoginResult, error)
}

// Starter establishes the local session once the exchange succeeds.
type Starter interface {
	Login(ctx context.Context, id identity.Identity, credential string, isAdmin bool) (*session.TermsGate, error)
}

type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

type Provider struct {
	clientID string
	exchange Exchanger
	sessions Starter
	log      *logger.Logger
}

func New(cfg config.GoogleConfig, exchange Exchanger, sessions Starter, logg *logger.Logger) (*Provider, error) {
	if exchange == nil {
		return nil, fmt.Errorf("googleauth: exchanger is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("googleauth: session starter is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("googleauth: logger is required")
	}
	return &Provider{clientID: cfg.ClientID, exchange: exchange, sessions: sessions, log: logg}, nil
}

// HandleCredential decodes the provider credential, exchanges it for a
// backend session, and starts the local session. The returned gate is
// non-nil when the identity still has to accept the terms.
func (p *Provider) HandleCredential(ctx context.Context, credential string) (*session.TermsGate, error) {
	claims := &idTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, errors.Wrap(errors.CodeUnauthorized, err, "decoding provider credential")
	}
	if p.clientID != "" {
		aud, _ := claims.GetAudience()
		if !contains(aud, p.clientID) {
			return nil, errors.New(errors.CodeUnauthorized, "credential audience mismatch")
		}
	}
	if claims.Email == "" || claims.Subject == "" {
		return nil, errors.New(errors.CodeUnauthorized, "credential missing profile claims")
	}

	result, err := p.exchange.GoogleLogin(ctx, gateway.GoogleLoginRequest{
		Email:          claims.Email,
		Name:           claims.Name,
		GoogleID:       claims.Subject,
		ProfilePicture: claims.Picture,
	})
	if err != nil {
		return nil, err
	}
	if result.AccessToken == "" || result.User == nil {
		return nil, errors.New(errors.CodeUnauthorized, "login exchange returned no session")
	}

	id := identity.Identity{
		UserID:         result.User.UserID,
		GoogleID:       claims.Subject,
		Email:          result.User.Email,
		Name:           result.User.Name,
		ProfilePicture: result.User.ProfilePicture,
	}
	return p.sessions.Login(ctx, id, result.AccessToken, result.User.IsAdmin)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
