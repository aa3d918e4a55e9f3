package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2Config configures a client credentials grant against a token
// endpoint that azidentity does not know about, such as AD FS on Azure
// Stack Hub.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// EndpointParams are extra form values, e.g. "resource" for v1 endpoints.
	EndpointParams map[string][]string
}

// OAuth2TokenManager runs the client credentials grant.
type OAuth2TokenManager struct {
	config *OAuth2Config
	store  *TokenStore
	mu     sync.Mutex
}

// NewOAuth2TokenManager creates a token manager for config.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	return &OAuth2TokenManager{
		config: config,
		store:  NewTokenStore(),
	}
}

// GetToken returns a valid token, requesting one when needed.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	err := m.request(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a new grant.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.request(ctx)
}

// SetToken manually sets the access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}

func (m *OAuth2TokenManager) request(ctx context.Context) error {
	if m.config == nil || m.config.ClientID == "" || m.config.ClientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required", ErrNoCredential)
	}

	grant := &clientcredentials.Config{
		ClientID:       m.config.ClientID,
		ClientSecret:   m.config.ClientSecret,
		TokenURL:       m.config.TokenURL,
		Scopes:         m.config.Scopes,
		EndpointParams: m.config.EndpointParams,
		AuthStyle:      oauth2.AuthStyleInParams,
	}

	token, err := grant.Token(ctx)
	if err != nil {
		return fmt.Errorf("client credentials grant: %w", err)
	}

	m.store.Set(&Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.Expiry,
	})

	return nil
}
