package resources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Static errors for err113 compliance.
var (
	ErrUnknownKind     = errors.New("unknown resource kind")
	ErrNotCollection   = errors.New("resource kind has no collection query")
	ErrNotSingular     = errors.New("resource kind has no single resource query")
	ErrMissingArgument = errors.New("missing argument")
)

// Query carries the arguments of a resource lookup. Parent is the
// enclosing resource for nested kinds: the virtual network of a subnet,
// the server of a database, the storage account of a container.
type Query struct {
	ResourceGroup string
	Name          string
	Parent        string
}

// Kind is one queryable resource type.
type Kind struct {
	Name        string
	Description string
	// Requires lists the Query fields that must be set.
	Requires []string

	columns  *azrm.ColumnRegistry
	plural   func(ctx context.Context, r *Resources, q Query) *azrm.Plural
	singular func(ctx context.Context, r *Resources, q Query) *azrm.Singular
	exists   func(ctx context.Context, r *Resources, q Query) (bool, error)
}

// HasCollection reports whether the kind answers collection queries.
func (k Kind) HasCollection() bool {
	return k.plural != nil
}

// Columns returns the column names of collection queries.
func (k Kind) Columns() []string {
	if k.columns == nil {
		return nil
	}

	return k.columns.Names()
}

// HasSingular reports whether the kind answers named queries.
func (k Kind) HasSingular() bool {
	return k.singular != nil
}

func (k Kind) check(q Query) error {
	for _, field := range k.Requires {
		var value string

		switch field {
		case "resource-group":
			value = q.ResourceGroup
		case "name":
			value = q.Name
		case "parent":
			value = q.Parent
		}

		if value == "" {
			return fmt.Errorf("%w: %s needs --%s", ErrMissingArgument, k.Name, field)
		}
	}

	return nil
}

// Collection runs the collection query of the kind.
func (k Kind) Collection(ctx context.Context, r *Resources, q Query) (*azrm.Plural, error) {
	if k.plural == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCollection, k.Name)
	}

	if err := k.check(q); err != nil {
		return nil, err
	}

	return k.plural(ctx, r, q), nil
}

// Single runs the named query of the kind.
func (k Kind) Single(ctx context.Context, r *Resources, q Query) (*azrm.Singular, error) {
	if k.singular == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotSingular, k.Name)
	}

	if err := k.check(q); err != nil {
		return nil, err
	}

	return k.singular(ctx, r, q), nil
}

// Exists answers the existence question for q: the named resource when
// q.Name is set and the kind supports it, the collection otherwise.
func (k Kind) Exists(ctx context.Context, r *Resources, q Query) (bool, error) {
	if err := k.check(q); err != nil {
		return false, err
	}

	switch {
	case k.exists != nil:
		return k.exists(ctx, r, q)
	case q.Name != "" && k.singular != nil:
		return k.singular(ctx, r, q).Exists()
	case k.plural != nil:
		return k.plural(ctx, r, q).Exists()
	default:
		return false, fmt.Errorf("%w: %s", ErrNotCollection, k.Name)
	}
}

var kinds = []Kind{
	{
		Name:        "virtual_machines",
		Description: "Virtual machines with derived platform, disks and network interfaces",
		columns:     virtualMachineColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.VirtualMachines(ctx, q.ResourceGroup)
		},
		singular: func(ctx context.Context, r *Resources, q Query) *azrm.Singular {
			return r.VirtualMachine(ctx, q.ResourceGroup, q.Name)
		},
	},
	{
		Name:        "disks",
		Description: "Managed disks",
		columns:     diskColumns,
		plural: func(ctx context.Context, r *Resources, _ Query) *azrm.Plural {
			return r.Disks(ctx)
		},
	},
	{
		Name:        "storage_accounts",
		Description: "Storage accounts",
		columns:     storageAccountColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.StorageAccounts(ctx, q.ResourceGroup)
		},
		singular: func(ctx context.Context, r *Resources, q Query) *azrm.Singular {
			return r.StorageAccount(ctx, q.ResourceGroup, q.Name)
		},
	},
	{
		Name:        "blob_container_acls",
		Description: "Stored access policies of a blob container (--parent is the storage account)",
		columns:     containerACLColumns,
		Requires:    []string{"resource-group", "parent", "name"},
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.BlobContainerAcls(ctx, q.ResourceGroup, q.Parent, q.Name).Plural
		},
		exists: func(ctx context.Context, r *Resources, q Query) (bool, error) {
			return r.BlobContainerAcls(ctx, q.ResourceGroup, q.Parent, q.Name).Exists()
		},
	},
	{
		Name:        "resource_groups",
		Description: "Resource groups",
		columns:     resourceGroupColumns,
		plural: func(ctx context.Context, r *Resources, _ Query) *azrm.Plural {
			return r.ResourceGroups(ctx)
		},
		singular: func(ctx context.Context, r *Resources, q Query) *azrm.Singular {
			return r.ResourceGroup(ctx, q.Name)
		},
	},
	{
		Name:        "key_vaults",
		Description: "Key vaults",
		columns:     keyVaultColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.KeyVaults(ctx, q.ResourceGroup)
		},
		singular: func(ctx context.Context, r *Resources, q Query) *azrm.Singular {
			return r.KeyVault(ctx, q.ResourceGroup, q.Name)
		},
	},
	{
		Name:        "network_security_groups",
		Description: "Network security groups",
		columns:     networkSecurityGroupColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.NetworkSecurityGroups(ctx, q.ResourceGroup)
		},
		singular: func(ctx context.Context, r *Resources, q Query) *azrm.Singular {
			return r.NetworkSecurityGroup(ctx, q.ResourceGroup, q.Name)
		},
	},
	{
		Name:        "virtual_networks",
		Description: "Virtual networks",
		columns:     virtualNetworkColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.VirtualNetworks(ctx, q.ResourceGroup)
		},
	},
	{
		Name:        "subnets",
		Description: "Subnets of a virtual network (--parent is the virtual network)",
		columns:     subnetColumns,
		Requires:    []string{"resource-group", "parent"},
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.Subnets(ctx, q.ResourceGroup, q.Parent)
		},
	},
	{
		Name:        "sql_servers",
		Description: "SQL servers",
		columns:     sqlServerColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.SQLServers(ctx, q.ResourceGroup)
		},
	},
	{
		Name:        "sql_databases",
		Description: "Databases of a SQL server (--parent is the server)",
		columns:     sqlDatabaseColumns,
		Requires:    []string{"resource-group", "parent"},
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.SQLDatabases(ctx, q.ResourceGroup, q.Parent)
		},
	},
	{
		Name:        "web_apps",
		Description: "App Service sites",
		columns:     webAppColumns,
		plural: func(ctx context.Context, r *Resources, q Query) *azrm.Plural {
			return r.WebApps(ctx, q.ResourceGroup)
		},
	},
}

// Kinds returns every queryable kind sorted by name.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// LookupKind finds a kind by name. Dashes and an azurerm_ prefix are
// accepted.
func LookupKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	normalized = strings.TrimPrefix(normalized, "azurerm_")

	for _, kind := range kinds {
		if kind.Name == normalized {
			return kind, nil
		}
	}

	return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, name)
}
