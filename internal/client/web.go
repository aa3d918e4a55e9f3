package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// WebApp gets one App Service site.
func (m *Management) WebApp(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "web app",
		m.link(resourceGroup, "Microsoft.Web/sites/"+name),
		m.version("Microsoft.Web", "sites"), nil)
}

// WebApps lists App Service sites.
func (m *Management) WebApps(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "web apps",
		m.link(resourceGroup, "Microsoft.Web/sites"),
		m.version("Microsoft.Web", "sites"), nil)
}

// WebAppAuthenticationSettings reads the authentication settings of a site.
// The service only exposes them through a POST list action.
func (m *Management) WebAppAuthenticationSettings(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.post(ctx, "web app authentication settings",
		m.link(resourceGroup, "Microsoft.Web/sites/"+name+"/config/authsettings/list"),
		m.version("Microsoft.Web", "sites"), nil)
}

// WebAppConfiguration gets the web configuration of a site.
func (m *Management) WebAppConfiguration(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "web app configuration",
		m.link(resourceGroup, "Microsoft.Web/sites/"+name+"/config/web"),
		m.version("Microsoft.Web", "sites"), nil)
}

// WebAppSupportedStacks lists the runtime stacks available to sites.
func (m *Management) WebAppSupportedStacks(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "web app supported stacks",
		m.link("", "Microsoft.Web/availableStacks"),
		m.version("Microsoft.Web", "availableStacks"), nil)
}
