package azclient

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/azrm/internal/client"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
	"github.com/fivetwenty-io/azrm/pkg/resources"
)

var (
	_ resources.Source                = (*client.Management)(nil)
	_ resources.ContainerPolicySource = (*client.BlobAccess)(nil)
)

// Client queries the resources of one subscription.
type Client struct {
	*resources.Resources

	inner *client.Client
}

// New creates a client from config.
func New(ctx context.Context, config *azrm.Config) (*Client, error) {
	inner, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return &Client{
		Resources: resources.New(inner.Management(),
			resources.WithLogger(config.Logger),
			resources.WithContainerPolicies(inner.Blobs()),
		),
		inner: inner,
	}, nil
}

// NewWithToken creates a client authenticating with a bearer token
// obtained elsewhere, e.g. `az account get-access-token`.
func NewWithToken(ctx context.Context, subscriptionID, token string) (*Client, error) {
	return New(ctx, &azrm.Config{
		SubscriptionID: subscriptionID,
		AccessToken:    token,
	})
}

// SubscriptionID returns the subscription the client is scoped to.
func (c *Client) SubscriptionID() string {
	return c.inner.Management().SubscriptionID()
}

// Profile returns the active API version profile.
func (c *Client) Profile() *azrm.ActiveProfile {
	return c.inner.Management().Profile()
}

// Endpoint returns the management endpoint.
func (c *Client) Endpoint() string {
	return c.inner.Endpoint()
}

// Fetcher returns the paginated fetcher, for endpoints without a resource
// view.
func (c *Client) Fetcher() *azrm.Fetcher {
	return c.inner.Management().Fetcher()
}

// Metrics returns per endpoint request metrics.
func (c *Client) Metrics() *azrm.MetricsCollector {
	return c.inner.Metrics()
}

// CacheStats returns response cache statistics, or nil when caching is
// off.
func (c *Client) CacheStats() *azrm.CacheStats {
	return c.inner.CacheStats()
}
