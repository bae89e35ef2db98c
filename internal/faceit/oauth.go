package faceit

import (
	"context"
	"fmt"
	"time"

	"github.com/teamform/wellboard/internal/config"
	"golang.org/x/oauth2"
)

// TokenPair is the persisted result of a code exchange or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// OAuth implements the Faceit authorization-code flow and the
// refresh-token grant on top of oauth2.
type OAuth struct {
	config *oauth2.Config
}

func NewOAuth(cfg *config.Config) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.FaceitClientID,
			ClientSecret: cfg.FaceitClientSecret,
			RedirectURL:  cfg.FaceitRedirectURI,
			Scopes:       []string{"openid", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.FaceitAuthURL,
				TokenURL: cfg.FaceitTokenURL,
			},
		},
	}
}

// AuthCodeURL builds the URL the user is sent to for consent.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token pair.
func (o *OAuth) Exchange(ctx context.Context, code string) (*TokenPair, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return pairFromToken(token)
}

// Refresh trades a refresh token for a fresh pair. Faceit rotates
// refresh tokens, so the caller must persist both halves.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	source := o.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	pair, err := pairFromToken(token)
	if err != nil {
		return nil, err
	}
	// Upstream may omit a new refresh token; keep the old one then
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	return pair, nil
}

func pairFromToken(token *oauth2.Token) (*TokenPair, error) {
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token")
	}
	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}
	return &TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
