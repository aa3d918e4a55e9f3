package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Subscription gets the subscription itself.
func (m *Management) Subscription(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "subscription",
		"/subscriptions/"+m.subscriptionID,
		m.version("Microsoft.Resources", "subscriptions"), nil)
}

// SubscriptionLocations lists the locations available to the subscription.
func (m *Management) SubscriptionLocations(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "subscription locations",
		azrm.BuildLink(m.subscriptionID, "", false, "locations"),
		m.version("Microsoft.Resources", "subscriptions/locations"), nil)
}

// ResourceGroups lists the resource groups of the subscription.
func (m *Management) ResourceGroups(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "resource groups",
		azrm.BuildLink(m.subscriptionID, "", false, "resourcegroups"),
		m.version("Microsoft.Resources", "resourceGroups"), nil)
}

// ResourceGroup gets one resource group.
func (m *Management) ResourceGroup(ctx context.Context, name string) ([]*azrm.Record, error) {
	if err := checkArgs("name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "resource group",
		azrm.BuildLink(m.subscriptionID, "", false, "resourcegroups/"+name),
		m.version("Microsoft.Resources", "resourceGroups"), nil)
}

// Locks lists the management locks applied to a resource. resourceType is
// the provider qualified type, e.g. Microsoft.Compute/virtualMachines.
func (m *Management) Locks(ctx context.Context, resourceGroup, name, resourceType string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name, "resource type", resourceType); err != nil {
		return nil, err
	}

	return m.get(ctx, "locks",
		m.link(resourceGroup, resourceType+"/"+name)+"providers/Microsoft.Authorization/locks",
		m.version("Microsoft.Authorization", "locks"), nil)
}

// RoleDefinition gets one role definition by its id.
func (m *Management) RoleDefinition(ctx context.Context, name string) ([]*azrm.Record, error) {
	if err := checkArgs("name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "role definition",
		m.link("", "Microsoft.Authorization/roleDefinitions/"+name),
		m.version("Microsoft.Authorization", "roleDefinitions"), nil)
}

// RoleDefinitions lists the role definitions visible to the subscription.
func (m *Management) RoleDefinitions(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "role definitions",
		m.link("", "Microsoft.Authorization/roleDefinitions"),
		m.version("Microsoft.Authorization", "roleDefinitions"), nil)
}

// managementGroupsAPIVersion is pinned; management groups live outside the
// subscription and are not part of the profiles.
const managementGroupsAPIVersion = "2018-03-01-preview"

// ManagementGroupOptions narrows a management group query.
type ManagementGroupOptions struct {
	Expand  string
	Recurse bool
	Filter  string
}

// ManagementGroups lists the management groups of the tenant.
func (m *Management) ManagementGroups(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "management groups",
		"/providers/Microsoft.Management/managementGroups",
		managementGroupsAPIVersion, nil)
}

// ManagementGroup gets one management group.
func (m *Management) ManagementGroup(ctx context.Context, groupID string, opts ManagementGroupOptions) ([]*azrm.Record, error) {
	if err := checkArgs("management group", groupID); err != nil {
		return nil, err
	}

	params := url.Values{"$recurse": {strconv.FormatBool(opts.Recurse)}}
	if opts.Expand != "" {
		params.Set("$expand", opts.Expand)
	}

	if opts.Filter != "" {
		params.Set("$filter", opts.Filter)
	}

	return m.get(ctx, "management group",
		"/providers/Microsoft.Management/managementGroups/"+groupID,
		managementGroupsAPIVersion, params)
}
