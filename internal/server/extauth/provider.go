// Package extauth implements the authorization-code flow against the
// external identity provider. It hands back a verified email and stable
// subject id; account resolution happens in the service layer.
package extauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/marianfedorco24/api/internal/server/config"
	"golang.org/x/oauth2"
)

// Identity is what the provider asserts about the caller after a completed
// code exchange.
type Identity struct {
	Subject string
	Email   string
}

// Provider drives the redirect/callback halves of the flow.
type Provider struct {
	oauth       *oauth2.Config
	userInfoURL string
	states      *stateSigner
	// httpClient is swappable for tests; nil means http.DefaultClient
	// via oauth2's own plumbing.
	httpClient *http.Client
}

// New builds a Provider from configuration. The endpoints default to
// Google's but stay configurable so staging can point at a stub.
func New(cfg *config.Config) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		userInfoURL: cfg.OAuthUserInfoURL,
		states:      newStateSigner([]byte(cfg.StateSecret)),
	}
}

// AuthURL returns the provider URL to redirect the browser to, carrying a
// signed state parameter that the callback verifies.
func (p *Provider) AuthURL() (string, error) {
	state, err := p.states.Issue()
	if err != nil {
		return "", fmt.Errorf("error issuing state: %w", err)
	}
	return p.oauth.AuthCodeURL(state), nil
}

// Exchange verifies the state, trades the authorization code for a token,
// and fetches the user info. ErrBadState callers map to 401; everything
// else is a provider failure.
func (p *Provider) Exchange(ctx context.Context, state, code string) (*Identity, error) {
	if err := p.states.Verify(state); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrBadState
	}

	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("error exchanging code: %w", err)
	}

	identity, err := p.fetchIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (p *Provider) fetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	client := p.httpClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding userinfo: %w", err)
	}

	if payload.Sub == "" || payload.Email == "" {
		return nil, errors.New("userinfo response incomplete")
	}
	if !payload.EmailVerified {
		return nil, errors.New("provider email not verified")
	}

	return &Identity{Subject: payload.Sub, Email: payload.Email}, nil
}
