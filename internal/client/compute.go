package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// VirtualMachine gets one virtual machine.
func (m *Management) VirtualMachine(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "virtual machine",
		m.link(resourceGroup, "Microsoft.Compute/virtualMachines")+name,
		m.version("Microsoft.Compute", "virtualMachines"), nil)
}

// VirtualMachines lists virtual machines, subscription wide when
// resourceGroup is empty.
func (m *Management) VirtualMachines(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "virtual machines",
		m.link(resourceGroup, "Microsoft.Compute/virtualMachines"),
		m.version("Microsoft.Compute", "virtualMachines"), nil)
}

// Disk gets one managed disk.
func (m *Management) Disk(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "disk",
		m.link(resourceGroup, "Microsoft.Compute/disks")+name,
		m.version("Microsoft.Compute", "disks"), nil)
}

// Disks lists every managed disk of the subscription.
func (m *Management) Disks(ctx context.Context) ([]*azrm.Record, error) {
	return m.get(ctx, "disks",
		m.link("", "Microsoft.Compute/disks"),
		m.version("Microsoft.Compute", "disks"), nil)
}

// aksAPIVersion is pinned; managed clusters are not part of the profiles.
const aksAPIVersion = "2017-01-31"

// AKSCluster gets one managed Kubernetes cluster.
func (m *Management) AKSCluster(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "aks cluster",
		m.link(resourceGroup, "Microsoft.ContainerService/managedClusters")+name,
		aksAPIVersion, nil)
}

// AKSClusters lists managed Kubernetes clusters.
func (m *Management) AKSClusters(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "aks clusters",
		m.link(resourceGroup, "Microsoft.ContainerService/managedClusters"),
		aksAPIVersion, nil)
}
