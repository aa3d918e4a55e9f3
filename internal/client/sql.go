package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

func (m *Management) sqlServerPath(resourceGroup, server, suffix string) string {
	return m.link(resourceGroup, "Microsoft.Sql/servers/"+server+suffix)
}

// SQLServers lists SQL servers.
func (m *Management) SQLServers(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "sql servers",
		m.link(resourceGroup, "Microsoft.Sql/servers"),
		m.version("Microsoft.Sql", "servers"), nil)
}

// SQLServer gets one SQL server.
func (m *Management) SQLServer(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql server",
		m.sqlServerPath(resourceGroup, name, ""),
		m.version("Microsoft.Sql", "servers"), nil)
}

// SQLServerAuditingSettings gets the default auditing policy of a server.
func (m *Management) SQLServerAuditingSettings(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql server auditing settings",
		m.sqlServerPath(resourceGroup, server, "/auditingSettings/default"),
		m.version("Microsoft.Sql", "servers/extendedAuditingSettings"), nil)
}

// SQLServerThreatDetectionSettings gets the default security alert policy.
func (m *Management) SQLServerThreatDetectionSettings(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql server threat detection settings",
		m.sqlServerPath(resourceGroup, server, "/securityAlertPolicies/Default"),
		m.version("Microsoft.Sql", "servers/securityAlertPolicies"), nil)
}

// SQLServerAdministrators lists the Active Directory administrators.
func (m *Management) SQLServerAdministrators(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql server administrators",
		m.sqlServerPath(resourceGroup, server, "/administrators"),
		m.version("Microsoft.Sql", "managedInstances/administrators"), nil)
}

// SQLEncryptionProtector gets the encryption protector of a server.
func (m *Management) SQLEncryptionProtector(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql encryption protector",
		m.sqlServerPath(resourceGroup, server, "/encryptionProtector"),
		m.version("Microsoft.Sql", "servers/encryptionProtector"), nil)
}

// SQLServerFirewallRules lists the firewall rules of a server.
func (m *Management) SQLServerFirewallRules(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql server firewall rules",
		m.sqlServerPath(resourceGroup, server, "/firewallRules"),
		m.version("Microsoft.Sql", "servers"), nil)
}

// SQLDatabase gets one database.
func (m *Management) SQLDatabase(ctx context.Context, resourceGroup, server, database string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server, "database", database); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql database",
		m.sqlServerPath(resourceGroup, server, "/databases/"+database),
		m.version("Microsoft.Sql", "servers/databases"), nil)
}

// SQLDatabases lists the databases of a server.
func (m *Management) SQLDatabases(ctx context.Context, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql databases",
		m.sqlServerPath(resourceGroup, server, "/databases"),
		m.version("Microsoft.Sql", "servers/databases"), nil)
}

// SQLDatabaseAuditingSettings gets the default auditing policy of a database.
func (m *Management) SQLDatabaseAuditingSettings(ctx context.Context, resourceGroup, server, database string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server, "database", database); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql database auditing settings",
		m.sqlServerPath(resourceGroup, server, "/databases/"+database+"/auditingSettings/default"),
		m.version("Microsoft.Sql", "servers/extendedAuditingSettings"), nil)
}

// SQLDatabaseThreatDetectionSettings gets the security alert policy of a
// database.
func (m *Management) SQLDatabaseThreatDetectionSettings(ctx context.Context, resourceGroup, server, database string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server, "database", database); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql database threat detection settings",
		m.sqlServerPath(resourceGroup, server, "/databases/"+database+"/securityAlertPolicies/default"),
		m.version("Microsoft.Sql", "servers/databases/securityAlertPolicies"), nil)
}

// SQLDatabaseEncryption gets the transparent data encryption state.
func (m *Management) SQLDatabaseEncryption(ctx context.Context, resourceGroup, server, database string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server, "database", database); err != nil {
		return nil, err
	}

	return m.get(ctx, "sql database encryption",
		m.sqlServerPath(resourceGroup, server, "/databases/"+database+"/transparentDataEncryption/current"),
		m.version("Microsoft.Sql", "servers/databases/transparentDataEncryption"), nil)
}
