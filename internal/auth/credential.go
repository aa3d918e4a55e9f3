package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// CredentialTokenManager caches tokens obtained from an azcore credential.
type CredentialTokenManager struct {
	credential azcore.TokenCredential
	scopes     []string
	store      *TokenStore
	mu         sync.Mutex
}

// NewCredentialTokenManager wraps credential for the given scopes.
func NewCredentialTokenManager(credential azcore.TokenCredential, scopes ...string) *CredentialTokenManager {
	return &CredentialTokenManager{
		credential: credential,
		scopes:     scopes,
		store:      NewTokenStore(),
	}
}

// NewDefaultCredentialTokenManager uses the default Azure credential chain
// (environment, workload identity, managed identity, Azure CLI).
func NewDefaultCredentialTokenManager(cfg cloud.Configuration) (*CredentialTokenManager, error) {
	credential, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		ClientOptions: policy.ClientOptions{Cloud: cfg},
	})
	if err != nil {
		return nil, fmt.Errorf("creating default credential: %w", err)
	}

	return NewCredentialTokenManager(credential, ManagementScope(cfg)), nil
}

// NewClientSecretTokenManager authenticates a service principal.
func NewClientSecretTokenManager(cfg cloud.Configuration, tenantID, clientID, clientSecret string) (*CredentialTokenManager, error) {
	credential, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret,
		&azidentity.ClientSecretCredentialOptions{
			ClientOptions: policy.ClientOptions{Cloud: cfg},
		})
	if err != nil {
		return nil, fmt.Errorf("creating client secret credential: %w", err)
	}

	return NewCredentialTokenManager(credential, ManagementScope(cfg)), nil
}

// Credential returns the wrapped credential.
func (m *CredentialTokenManager) Credential() azcore.TokenCredential {
	return m.credential
}

// GetToken returns a cached token or asks the credential for a new one.
func (m *CredentialTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have refreshed while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	err := m.fetch(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken discards the cached token and fetches a new one.
func (m *CredentialTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Clear()

	return m.fetch(ctx)
}

// SetToken seeds the cache.
func (m *CredentialTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

func (m *CredentialTokenManager) fetch(ctx context.Context) error {
	if m.credential == nil {
		return ErrNoCredential
	}

	accessToken, err := m.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: m.scopes})
	if err != nil {
		return fmt.Errorf("acquiring token: %w", err)
	}

	if accessToken.Token == "" {
		return ErrEmptyToken
	}

	m.store.Set(&Token{
		AccessToken: accessToken.Token,
		TokenType:   "Bearer",
		ExpiresAt:   accessToken.ExpiresOn,
	})

	return nil
}
