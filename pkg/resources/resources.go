// Package resources exposes Resource Manager resources as existence checks
// and filter tables.
//
// Collections come back as *azrm.Plural, named resources as
// *azrm.Singular:
//
//	vms := res.VirtualMachines(ctx, "prod")
//	linux, err := vms.Where(azrm.Eq("platforms", "linux"))
//	names, err := linux.Column("vm_names")
package resources

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Source is the endpoint catalogue the resources read from.
type Source interface {
	VirtualMachines(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
	VirtualMachine(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error)
	Disks(ctx context.Context) ([]*azrm.Record, error)
	StorageAccounts(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
	StorageAccount(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error)
	ResourceGroups(ctx context.Context) ([]*azrm.Record, error)
	ResourceGroup(ctx context.Context, name string) ([]*azrm.Record, error)
	KeyVaults(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
	KeyVault(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error)
	NetworkSecurityGroups(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
	NetworkSecurityGroup(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error)
	VirtualNetworks(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
	Subnets(ctx context.Context, resourceGroup, vnet string) ([]*azrm.Record, error)
	SQLServers(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
	SQLDatabases(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error)
	WebApps(ctx context.Context, resourceGroup string) ([]*azrm.Record, error)
}

// ContainerPolicySource reads the stored access policies of a blob
// container.
type ContainerPolicySource interface {
	ContainerPolicies(ctx context.Context, resourceGroup, account, container string) ([]*azrm.Record, error)
}

// Resources builds resource views over a Source.
type Resources struct {
	source   Source
	policies ContainerPolicySource
	logger   azrm.Logger
}

// Option configures Resources.
type Option func(*Resources)

// WithLogger sets the logger.
func WithLogger(logger azrm.Logger) Option {
	return func(r *Resources) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithContainerPolicies enables BlobContainerAcls.
func WithContainerPolicies(policies ContainerPolicySource) Option {
	return func(r *Resources) {
		r.policies = policies
	}
}

// New creates resource views over source.
func New(source Source, opts ...Option) *Resources {
	r := &Resources{
		source: source,
		logger: azrm.NopLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resources) plural(kind string, registry *azrm.ColumnRegistry, pipeline *azrm.Pipeline,
	records []*azrm.Record, err error,
) *azrm.Plural {
	if err != nil {
		r.logger.Debug("resource query failed", map[string]interface{}{"resource": kind, "error": err.Error()})

		return azrm.NewPlural(registry, nil, err)
	}

	return azrm.NewPlural(registry, pipeline.Apply(records), nil)
}

func (r *Resources) singular(kind string, pipeline *azrm.Pipeline, records []*azrm.Record, err error) *azrm.Singular {
	if err != nil {
		r.logger.Debug("resource query failed", map[string]interface{}{"resource": kind, "error": err.Error()})

		return azrm.NewSingular(nil, err)
	}

	return azrm.NewSingular(pipeline.Apply(records), nil)
}

// withResourceGroup derives resource_group from the resource id.
func withResourceGroup() azrm.Step {
	return azrm.Derive("resource_group", func(rec *azrm.Record) any {
		id, _ := rec.DigString("id")
		if id == "" {
			return ""
		}

		rid, err := arm.ParseResourceID(id)
		if err != nil {
			return ""
		}

		return rid.ResourceGroupName
	})
}

// commonPipeline is applied to every generic resource.
var commonPipeline = azrm.NewPipeline(
	withResourceGroup(),
	azrm.DefaultNull("tags"),
)

// commonColumns returns a registry with the columns every tracked resource
// has.
func commonColumns() *azrm.ColumnRegistry {
	return azrm.NewColumnRegistry().
		RegisterField("names", "name").
		RegisterField("ids", "id").
		RegisterField("locations", "location").
		RegisterField("types", "type").
		RegisterField("resource_groups", "resource_group").
		RegisterField("tags", "tags")
}
