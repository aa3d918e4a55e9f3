package resources

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

var resourceGroupColumns = commonColumns().
	RegisterField("provisioning_states", "properties", "provisioningState")

// ResourceGroups lists the resource groups of the subscription.
func (r *Resources) ResourceGroups(ctx context.Context) *azrm.Plural {
	records, err := r.source.ResourceGroups(ctx)

	return r.plural("resource groups", resourceGroupColumns, commonPipeline, records, err)
}

// ResourceGroup gets one resource group.
func (r *Resources) ResourceGroup(ctx context.Context, name string) *azrm.Singular {
	records, err := r.source.ResourceGroup(ctx, name)

	return r.singular("resource group", commonPipeline, records, err)
}

var keyVaultColumns = commonColumns().
	RegisterField("tenant_ids", "properties", "tenantId").
	RegisterField("vault_uris", "properties", "vaultUri").
	RegisterField("soft_delete_enabled", "properties", "enableSoftDelete").
	RegisterField("purge_protection_enabled", "properties", "enablePurgeProtection")

// KeyVaults lists key vaults.
func (r *Resources) KeyVaults(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.KeyVaults(ctx, resourceGroup)

	return r.plural("key vaults", keyVaultColumns, commonPipeline, records, err)
}

// KeyVault gets one key vault.
func (r *Resources) KeyVault(ctx context.Context, resourceGroup, name string) *azrm.Singular {
	records, err := r.source.KeyVault(ctx, resourceGroup, name)

	return r.singular("key vault", commonPipeline, records, err)
}

var sqlServerColumns = commonColumns().
	RegisterField("kinds", "kind").
	RegisterField("versions", "properties", "version").
	RegisterField("fqdns", "properties", "fullyQualifiedDomainName").
	RegisterField("administrator_logins", "properties", "administratorLogin")

// SQLServers lists SQL servers.
func (r *Resources) SQLServers(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.SQLServers(ctx, resourceGroup)

	return r.plural("sql servers", sqlServerColumns, commonPipeline, records, err)
}

var sqlDatabaseColumns = commonColumns().
	RegisterField("statuses", "properties", "status").
	RegisterField("collations", "properties", "collation").
	RegisterField("skus", "sku", "name")

// SQLDatabases lists the databases of a SQL server.
func (r *Resources) SQLDatabases(ctx context.Context, resourceGroup, server string) *azrm.Plural {
	records, err := r.source.SQLDatabases(ctx, resourceGroup, server)

	return r.plural("sql databases", sqlDatabaseColumns, commonPipeline, records, err)
}

var webAppColumns = commonColumns().
	RegisterField("kinds", "kind").
	RegisterField("states", "properties", "state").
	RegisterField("https_only", "properties", "httpsOnly").
	RegisterField("default_host_names", "properties", "defaultHostName")

// WebApps lists App Service sites.
func (r *Resources) WebApps(ctx context.Context, resourceGroup string) *azrm.Plural {
	records, err := r.source.WebApps(ctx, resourceGroup)

	return r.plural("web apps", webAppColumns, commonPipeline, records, err)
}
