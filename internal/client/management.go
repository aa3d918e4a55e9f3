package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Management is the catalogue of Resource Manager queries. Every method
// returns the complete, paginated result set of one endpoint; singular
// endpoints return a one element slice.
type Management struct {
	subscriptionID string
	fetcher        *azrm.Fetcher
	profile        *azrm.ActiveProfile
}

// NewManagement creates the catalogue for one subscription.
func NewManagement(subscriptionID string, fetcher *azrm.Fetcher, profile *azrm.ActiveProfile) *Management {
	return &Management{
		subscriptionID: subscriptionID,
		fetcher:        fetcher,
		profile:        profile,
	}
}

// SubscriptionID returns the subscription the catalogue is scoped to.
func (m *Management) SubscriptionID() string {
	return m.subscriptionID
}

// Profile returns the active API version profile.
func (m *Management) Profile() *azrm.ActiveProfile {
	return m.profile
}

// Fetcher returns the paginated fetcher used for every query.
func (m *Management) Fetcher() *azrm.Fetcher {
	return m.fetcher
}

// link builds a provider path under the subscription.
func (m *Management) link(resourceGroup, location string) string {
	return azrm.BuildLink(m.subscriptionID, resourceGroup, true, location)
}

// version resolves the api-version through the active profile.
func (m *Management) version(provider, resourceType string) string {
	return m.profile.APIVersion(provider, resourceType)
}

func (m *Management) get(ctx context.Context, what, path, apiVersion string, params url.Values) ([]*azrm.Record, error) {
	records, err := m.fetcher.Get(ctx, path, apiVersion, params)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}

	return records, nil
}

func (m *Management) post(ctx context.Context, what, path, apiVersion string, body []byte) ([]*azrm.Record, error) {
	records, err := m.fetcher.Post(ctx, path, apiVersion, body)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}

	return records, nil
}

// checkArgs reports the first empty argument. Without it a singular query
// would silently turn into a list query.
func checkArgs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s", constants.ErrNameRequired, pairs[i])
		}
	}

	return nil
}
