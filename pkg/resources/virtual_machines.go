package resources

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Platform values derived from a virtual machine's OS profile.
const (
	PlatformWindows = "windows"
	PlatformLinux   = "linux"
	PlatformUnknown = "unknown"
)

var virtualMachinePipeline = commonPipeline.Then(
	azrm.Classify("platform", PlatformUnknown,
		azrm.WhenPresent(PlatformWindows, "properties", "osProfile", "windowsConfiguration"),
		azrm.WhenPresent(PlatformLinux, "properties", "osProfile", "linuxConfiguration"),
	),
	azrm.Derive("os_disk", func(rec *azrm.Record) any {
		name, _ := rec.DigString("properties", "storageProfile", "osDisk", "name")

		return name
	}),
	// Only managed disks are reported.
	azrm.SelectProject("data_disks", []string{"properties", "storageProfile", "dataDisks"}, "managedDisk", "name"),
	azrm.LeafNames("network_interfaces", []string{"properties", "networkProfile", "networkInterfaces"}, "id"),
)

var virtualMachineColumns = commonColumns().
	RegisterField("os_disks", "os_disk").
	RegisterField("data_disks", "data_disks").
	RegisterAlias("vm_names", "names").
	RegisterField("platforms", "platform").
	RegisterField("network_interfaces", "network_interfaces").
	RegisterField("vm_sizes", "properties", "hardwareProfile", "vmSize")

// VirtualMachines lists virtual machines, subscription wide when
// resourceGroup is empty. Every row carries the derived fields platform,
// os_disk, data_disks, network_interfaces and tags.
func (r *Resources) VirtualMachines(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.VirtualMachines(ctx, resourceGroup)

	return r.plural("virtual machines", virtualMachineColumns, virtualMachinePipeline, records, err)
}

// VirtualMachine gets one virtual machine with the same derived fields as
// VirtualMachines.
func (r *Resources) VirtualMachine(ctx context.Context, resourceGroup, name string) *azrm.Singular {
	records, err := r.source.VirtualMachine(ctx, resourceGroup, name)

	return r.singular("virtual machine", virtualMachinePipeline, records, err)
}

var diskPipeline = commonPipeline.Then(
	azrm.LeafName("owner", "managedBy"),
)

var diskColumns = commonColumns().
	RegisterField("sizes", "properties", "diskSizeGB").
	RegisterField("states", "properties", "diskState").
	RegisterField("owners", "owner").
	RegisterField("skus", "sku", "name")

// Disks lists the managed disks of the subscription. owner is the leaf
// name of the virtual machine a disk is attached to, or "".
func (r *Resources) Disks(ctx context.Context) *azrm.Plural {
	records, err := r.source.Disks(ctx)

	return r.plural("disks", diskColumns, diskPipeline, records, err)
}
