package resources

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

var networkSecurityGroupPipeline = commonPipeline.Then(
	azrm.Derive("security_rule_names", func(rec *azrm.Record) any {
		rules := rec.DigSlice("properties", "securityRules")
		names := make([]any, 0, len(rules))

		for _, item := range rules {
			if rule, ok := item.(*azrm.Record); ok {
				names = append(names, rule.Get("name"))
			}
		}

		return names
	}),
)

var networkSecurityGroupColumns = commonColumns().
	RegisterField("security_rules", "properties", "securityRules").
	RegisterField("security_rule_names", "security_rule_names").
	RegisterField("default_security_rules", "properties", "defaultSecurityRules")

// NetworkSecurityGroups lists network security groups.
func (r *Resources) NetworkSecurityGroups(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.NetworkSecurityGroups(ctx, resourceGroup)

	return r.plural("network security groups", networkSecurityGroupColumns, networkSecurityGroupPipeline, records, err)
}

// NetworkSecurityGroup gets one network security group.
func (r *Resources) NetworkSecurityGroup(ctx context.Context, resourceGroup, name string) *azrm.Singular {
	records, err := r.source.NetworkSecurityGroup(ctx, resourceGroup, name)

	return r.singular("network security group", networkSecurityGroupPipeline, records, err)
}

var virtualNetworkPipeline = commonPipeline.Then(
	azrm.LeafNames("subnets", []string{"properties", "subnets"}, "id"),
)

var virtualNetworkColumns = commonColumns().
	RegisterField("address_spaces", "properties", "addressSpace", "addressPrefixes").
	RegisterField("subnets", "subnets").
	RegisterField("dns_servers", "properties", "dhcpOptions", "dnsServers")

// VirtualNetworks lists virtual networks. subnets holds the subnet names.
func (r *Resources) VirtualNetworks(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.VirtualNetworks(ctx, resourceGroup)

	return r.plural("virtual networks", virtualNetworkColumns, virtualNetworkPipeline, records, err)
}

var subnetPipeline = commonPipeline.Then(
	azrm.LeafName("network_security_group", "properties", "networkSecurityGroup", "id"),
)

var subnetColumns = commonColumns().
	RegisterField("address_prefixes", "properties", "addressPrefix").
	RegisterField("network_security_groups", "network_security_group")

// Subnets lists the subnets of a virtual network.
func (r *Resources) Subnets(ctx context.Context, resourceGroup, vnet string) *azrm.Plural {
	records, err := r.source.Subnets(ctx, resourceGroup, vnet)

	return r.plural("subnets", subnetColumns, subnetPipeline, records, err)
}
