package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// NetworkSecurityGroup gets one network security group.
func (m *Management) NetworkSecurityGroup(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "network security group",
		m.link(resourceGroup, "Microsoft.Network/networkSecurityGroups")+name,
		m.version("Microsoft.Network", "networkSecurityGroups"), nil)
}

// NetworkSecurityGroups lists network security groups.
func (m *Management) NetworkSecurityGroups(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "network security groups",
		m.link(resourceGroup, "Microsoft.Network/networkSecurityGroups"),
		m.version("Microsoft.Network", "networkSecurityGroups"), nil)
}

// NetworkWatcher gets one network watcher.
func (m *Management) NetworkWatcher(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "network watcher",
		m.link(resourceGroup, "Microsoft.Network/networkWatchers")+name,
		m.version("Microsoft.Network", "networkWatchers"), nil)
}

// NetworkWatchers lists network watchers.
func (m *Management) NetworkWatchers(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "network watchers",
		m.link(resourceGroup, "Microsoft.Network/networkWatchers"),
		m.version("Microsoft.Network", "networkWatchers"), nil)
}

type flowLogStatusRequest struct {
	TargetResourceID string `json:"targetResourceId"`
}

// NetworkWatcherFlowLogStatus queries the flow log configuration a watcher
// holds for a network security group in the same resource group.
func (m *Management) NetworkWatcherFlowLogStatus(ctx context.Context, resourceGroup, watcher, nsg string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "network watcher", watcher, "network security group", nsg); err != nil {
		return nil, err
	}

	body, err := json.Marshal(flowLogStatusRequest{
		TargetResourceID: fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Network/networkSecurityGroups/%s",
			m.subscriptionID, resourceGroup, nsg),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding flow log status request: %w", err)
	}

	return m.post(ctx, "flow log status",
		m.link(resourceGroup, "Microsoft.Network/networkWatchers/"+watcher+"/queryFlowLogStatus"),
		m.version("Microsoft.Network", "networkWatchers"), body)
}

// VirtualNetwork gets one virtual network.
func (m *Management) VirtualNetwork(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "virtual network",
		m.link(resourceGroup, "Microsoft.Network/virtualNetworks")+name,
		m.version("Microsoft.Network", "virtualNetworks"), nil)
}

// VirtualNetworks lists virtual networks.
func (m *Management) VirtualNetworks(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "virtual networks",
		m.link(resourceGroup, "Microsoft.Network/virtualNetworks"),
		m.version("Microsoft.Network", "virtualNetworks"), nil)
}

// Subnet gets one subnet of a virtual network.
func (m *Management) Subnet(ctx context.Context, resourceGroup, vnet, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "virtual network", vnet, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "subnet",
		m.link(resourceGroup, "Microsoft.Network/virtualNetworks/"+vnet+"/subnets")+name,
		m.version("Microsoft.Network", "virtualNetworks"), nil)
}

// Subnets lists the subnets of a virtual network.
func (m *Management) Subnets(ctx context.Context, resourceGroup, vnet string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "virtual network", vnet); err != nil {
		return nil, err
	}

	return m.get(ctx, "subnets",
		m.link(resourceGroup, "Microsoft.Network/virtualNetworks/"+vnet+"/subnets"),
		m.version("Microsoft.Network", "virtualNetworks"), nil)
}
