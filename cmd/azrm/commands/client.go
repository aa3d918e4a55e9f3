package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/pkg/azclient"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// newClient is replaced in tests.
var newClient = func(ctx context.Context, config *azrm.Config) (*azclient.Client, error) {
	return azclient.New(ctx, config)
}

// loadClientConfig assembles the client configuration from flags, the
// config file and AZRM_* environment variables. The standard AZURE_*
// variables fill in whatever is still unset.
func loadClientConfig() (*azrm.Config, error) {
	config := &azrm.Config{
		SubscriptionID:    firstNonEmpty(viper.GetString("subscription_id"), os.Getenv("AZURE_SUBSCRIPTION_ID")),
		AccessToken:       viper.GetString("token"),
		TenantID:          firstNonEmpty(viper.GetString("tenant_id"), os.Getenv("AZURE_TENANT_ID")),
		ClientID:          viper.GetString("client_id"),
		ClientSecret:      viper.GetString("client_secret"),
		TokenURL:          viper.GetString("token_url"),
		Cloud:             viper.GetString("cloud"),
		Endpoint:          viper.GetString("endpoint"),
		Profile:           viper.GetString("profile"),
		HTTPTimeout:       viper.GetDuration("timeout"),
		RetryMax:          viper.GetInt("retry_max"),
		RetryWaitMin:      viper.GetDuration("retry_wait_min"),
		RetryWaitMax:      viper.GetDuration("retry_wait_max"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		Debug:             viper.GetBool("verbose"),
		UserAgent:         viper.GetString("user_agent"),
		Headers:           viper.GetStringMapString("headers"),
	}

	if config.SubscriptionID == "" {
		return nil, constants.ErrNoSubscription
	}

	if cacheType := viper.GetString("cache.type"); cacheType != "" {
		cache := &azrm.CacheConfig{}
		if err := viper.UnmarshalKey("cache", cache); err != nil {
			return nil, fmt.Errorf("failed to read cache configuration: %w", err)
		}

		cache.Type = azrm.CacheType(cacheType)

		if url := viper.GetString("cache.nats.url"); url != "" {
			cache.NATS = &azrm.NATSKVConfig{
				URL:    url,
				Bucket: viper.GetString("cache.nats.bucket"),
				TTL:    viper.GetDuration("cache.nats.ttl"),
				Create: viper.GetBool("cache.nats.create"),
			}
		}

		config.Cache = cache
	}

	return config, nil
}

// connect builds a client from the loaded configuration.
func connect(ctx context.Context, config *azrm.Config) (*azclient.Client, error) {
	client, err := newClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return client, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
