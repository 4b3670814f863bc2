// Package auth wraps the external identity provider: OAuth authorization
// code exchange, identity retrieval, and the provider-side user metadata
// mirror. The provider is an external collaborator; nothing here persists
// anything locally.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Aghostraa/abcr-platform/internal/config"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Identity is the authenticated subject as reported by the provider's
// userinfo endpoint. The ID is the provider's opaque UUID subject.
type Identity struct {
	ID    string
	Email string
}

// Provider is the surface the rest of the application depends on. Tests
// substitute a stub; production uses OAuthProvider.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error)
	UpdateUserMetadata(ctx context.Context, token *oauth2.Token, metadata map[string]string) error
}

// OAuthProvider implements Provider on top of golang.org/x/oauth2.
type OAuthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	metadataURL string
}

// NewProvider builds an OAuthProvider from configuration. The endpoint URLs
// belong to whichever hosted identity service the deployment uses.
func NewProvider(cfg *config.Config) *OAuthProvider {
	return &OAuthProvider{
		config: &oauth2.Config{
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
		metadataURL: cfg.OAuthMetadataURL,
	}
}

// AuthURL returns the provider authorization URL for the given CSRF state.
func (p *OAuthProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for an access token. The exchange
// is server-to-server; the token never reaches the browser.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging code: %w", err)
	}
	return token, nil
}

// FetchIdentity calls the provider's userinfo endpoint with the token and
// returns the subject ID and email.
func (p *OAuthProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: userinfo endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	subject := payload.ID
	if subject == "" {
		subject = payload.Sub
	}
	if _, err := uuid.Parse(subject); err != nil {
		return nil, fmt.Errorf("auth: provider returned invalid subject %q: %w", subject, err)
	}

	return &Identity{ID: subject, Email: payload.Email}, nil
}

// UpdateUserMetadata mirrors key/value pairs into the identity's auxiliary
// metadata on the provider side. This is a separate remote call from any
// local write; callers get no transactional guarantee across the two.
func (p *OAuthProvider) UpdateUserMetadata(ctx context.Context, token *oauth2.Token, metadata map[string]string) error {
	body, err := json.Marshal(map[string]interface{}{"data": metadata})
	if err != nil {
		return fmt.Errorf("auth: encoding metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.metadataURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("auth: building metadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.config.Client(ctx, token)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: updating user metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("auth: metadata endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
