package azrm

import (
	"strings"
	"time"
)

// Cloud names accepted by Config.Cloud.
const (
	CloudPublic = "public"
	CloudUSGov  = "usgov"
	CloudChina  = "china"
)

// Config configures a client. Only SubscriptionID is required; everything
// else has a usable default.
type Config struct {
	// SubscriptionID: the subscription every query is scoped to.
	SubscriptionID string

	// Authentication options (all optional)
	// AccessToken: if set, used directly as a Bearer token.
	AccessToken string
	// TenantID, ClientID, ClientSecret: service principal used with the
	// client credentials grant. When all three are empty the default Azure
	// credential chain (environment, managed identity, Azure CLI) is used.
	TenantID     string
	ClientID     string
	ClientSecret string
	// TokenURL: OAuth2 token endpoint for the client credentials grant,
	// for identity providers the Azure SDK does not know (AD FS on Azure
	// Stack Hub). Empty uses the cloud's Entra ID authority.
	TokenURL string

	// Cloud selects the sovereign cloud: public (default), usgov or china.
	Cloud string
	// Endpoint: overrides the management endpoint of the selected cloud.
	Endpoint string

	// Profile: API version profile name. Empty uses the process wide
	// selection, see ActiveProfileName.
	Profile string

	// Optional configurations
	// HTTPTimeout: per request timeout of the underlying HTTP client.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// RequestsPerSecond: client-side rate limit. Zero disables it.
	RequestsPerSecond float64
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// Headers: extra headers sent with every request, such as a fixed
	// x-ms-correlation-request-id.
	Headers map[string]string
	// Cache: response cache. Nil disables caching.
	Cache *CacheConfig
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if strings.TrimSpace(c.SubscriptionID) == "" {
		return ErrSubscriptionIDRequired
	}

	return nil
}

// ProfileName returns the profile to use, falling back to the process wide
// selection.
func (c *Config) ProfileName(lookupEnv func(string) (string, bool)) string {
	if c.Profile != "" {
		return c.Profile
	}

	return ActiveProfileName(lookupEnv)
}

// ActiveProfileName reads AZURE_REST_API_PROFILE through lookupEnv and
// defaults to DefaultProfileName.
func ActiveProfileName(lookupEnv func(string) (string, bool)) string {
	if lookupEnv == nil {
		return DefaultProfileName
	}

	if v, ok := lookupEnv(ProfileEnvVar); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	return DefaultProfileName
}

// ProfileEnvVar names the environment variable selecting the API profile.
const ProfileEnvVar = "AZURE_REST_API_PROFILE"
