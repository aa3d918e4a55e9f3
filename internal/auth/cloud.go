package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
)

// Static errors for err113 compliance.
var (
	ErrUnknownCloud = errors.New("unknown cloud")
)

// CloudConfiguration maps a cloud name to the SDK configuration. The empty
// name selects the public cloud.
func CloudConfiguration(name string) (cloud.Configuration, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "public", "azurecloud":
		return cloud.AzurePublic, nil
	case "usgov", "azureusgovernment":
		return cloud.AzureGovernment, nil
	case "china", "azurechinacloud":
		return cloud.AzureChina, nil
	default:
		return cloud.Configuration{}, fmt.Errorf("%w: %s", ErrUnknownCloud, name)
	}
}

// ManagementEndpoint returns the Resource Manager endpoint of cfg without a
// trailing slash.
func ManagementEndpoint(cfg cloud.Configuration) string {
	return strings.TrimRight(cfg.Services[cloud.ResourceManager].Endpoint, "/")
}

// ManagementScope returns the token scope for the Resource Manager audience
// of cfg.
func ManagementScope(cfg cloud.Configuration) string {
	audience := cfg.Services[cloud.ResourceManager].Audience
	if audience == "" {
		audience = cfg.Services[cloud.ResourceManager].Endpoint
	}

	return strings.TrimRight(audience, "/") + "/.default"
}

// TokenURL returns the v2 token endpoint of tenantID under the authority
// host of cfg.
func TokenURL(cfg cloud.Configuration, tenantID string) string {
	authority := strings.TrimRight(cfg.ActiveDirectoryAuthorityHost, "/")

	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, tenantID)
}
