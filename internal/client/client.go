package client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"

	"github.com/fivetwenty-io/azrm/internal/auth"
	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/internal/http"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Client holds everything one subscription needs: the authenticated
// transport, the endpoint catalogue and blob data plane access.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	logger       azrm.Logger

	management *Management
	blobs      *BlobAccess
	metrics    *azrm.MetricsCollector
	cache      *azrm.CacheManager
}

// New creates a client from config. The memory cache cleanup, when
// enabled, runs until ctx ends.
func New(ctx context.Context, config *azrm.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cloudConfig, err := auth.CloudConfiguration(config.Cloud)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = azrm.NopLogger{}
	}

	tokenManager, credential, err := createTokenManager(config, cloudConfig)
	if err != nil {
		return nil, err
	}

	cache, err := createCacheManager(ctx, config.Cache)
	if err != nil {
		return nil, err
	}

	metrics := azrm.NewMetricsCollector()

	httpOpts := createHTTPClientOptions(config, logger)
	httpOpts = append(httpOpts, http.WithInterceptors(createInterceptors(config, logger, metrics)))

	if cache != nil {
		httpOpts = append(httpOpts, http.WithCacheManager(cache))
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = auth.ManagementEndpoint(cloudConfig)
	}

	httpClient := http.NewClient(endpoint, tokenManager, httpOpts...)

	fetcher := azrm.NewFetcher(http.NewTransport(httpClient), azrm.WithFetchLogger(logger))
	profile := azrm.BuiltinProfiles().WithLogger(logger).Active(config.ProfileName(os.LookupEnv))

	management := NewManagement(strings.TrimSpace(config.SubscriptionID), fetcher, profile)

	logger.Debug("client ready", map[string]interface{}{
		"endpoint": endpoint,
		"profile":  profile.Name(),
		"cache":    cache != nil,
	})

	return &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		logger:       logger,
		management:   management,
		blobs:        NewBlobAccess(management, credential, nil),
		metrics:      metrics,
		cache:        cache,
	}, nil
}

// createTokenManager picks the authentication method: a static token, a
// service principal, or the default credential chain. The returned
// credential is nil unless the method can also reach the blob data plane.
func createTokenManager(config *azrm.Config, cloudConfig cloud.Configuration) (auth.TokenManager, azcore.TokenCredential, error) {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken), nil, nil
	}

	if config.ClientID != "" || config.ClientSecret != "" {
		if config.ClientID == "" || config.ClientSecret == "" {
			return nil, nil, constants.ErrIncompleteCredential
		}

		if config.TokenURL != "" {
			return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
				TokenURL:     config.TokenURL,
				ClientID:     config.ClientID,
				ClientSecret: config.ClientSecret,
				Scopes:       []string{auth.ManagementScope(cloudConfig)},
			}), nil, nil
		}

		if config.TenantID == "" {
			return nil, nil, constants.ErrIncompleteCredential
		}

		manager, err := auth.NewClientSecretTokenManager(cloudConfig, config.TenantID, config.ClientID, config.ClientSecret)
		if err != nil {
			return nil, nil, err
		}

		return manager, manager.Credential(), nil
	}

	manager, err := auth.NewDefaultCredentialTokenManager(cloudConfig)
	if err != nil {
		return nil, nil, err
	}

	return manager, manager.Credential(), nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *azrm.Config, logger azrm.Logger) []http.Option {
	httpOpts := []http.Option{http.WithLogger(logger)}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RequestsPerSecond > 0 {
		httpOpts = append(httpOpts, http.WithRateLimit(config.RequestsPerSecond, constants.DefaultRateBurst))
	}

	return httpOpts
}

func createInterceptors(config *azrm.Config, logger azrm.Logger, metrics *azrm.MetricsCollector) *azrm.InterceptorChain {
	chain := azrm.NewInterceptorChain()

	if len(config.Headers) > 0 {
		chain.AddRequestInterceptor(azrm.HeaderInterceptor(config.Headers))
	}

	chain.AddRequestInterceptor(azrm.ClientRequestIDInterceptor())
	chain.AddRequestInterceptor(azrm.MetricsRequestInterceptor(metrics))
	chain.AddResponseInterceptor(azrm.MetricsResponseInterceptor(metrics))
	chain.AddResponseInterceptor(azrm.ThrottleWarningInterceptor(logger, constants.LowRemainingReads))

	if config.Debug {
		chain.AddRequestInterceptor(azrm.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(azrm.LoggingResponseInterceptor(logger))
	}

	return chain
}

// createCacheManager builds the response cache. A nil config or the none
// backend disables caching.
func createCacheManager(ctx context.Context, config *azrm.CacheConfig) (*azrm.CacheManager, error) {
	if config == nil || config.Type == azrm.CacheTypeNone {
		return nil, nil
	}

	builder := azrm.NewCacheBuilder().
		WithType(config.Type).
		WithNATSConfig(config.NATS)

	if config.Memory != nil {
		builder = builder.WithMemoryConfig(config.Memory.MaxSize, config.Memory.CleanupInterval)
	}

	if config.Options != nil {
		builder = builder.WithOptions(config.Options)
	}

	cache, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	if memory, ok := cache.(*azrm.MemoryCache); ok && config.Memory != nil {
		memory.StartCleanup(ctx, config.Memory.CleanupEvery())
	}

	return azrm.NewCacheManager(cache, builder.Config().Options), nil
}

// Management returns the endpoint catalogue.
func (c *Client) Management() *Management {
	return c.management
}

// Blobs returns blob data plane access.
func (c *Client) Blobs() *BlobAccess {
	return c.blobs
}

// Metrics returns per endpoint request metrics.
func (c *Client) Metrics() *azrm.MetricsCollector {
	return c.metrics
}

// CacheStats returns response cache statistics, or nil when caching is
// off.
func (c *Client) CacheStats() *azrm.CacheStats {
	if c.cache == nil {
		return nil
	}

	return c.cache.GetStats()
}

// Endpoint returns the management endpoint.
func (c *Client) Endpoint() string {
	return c.httpClient.BaseURL()
}
