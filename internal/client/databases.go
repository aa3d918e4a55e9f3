package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// DatabaseEngine selects the Azure Database for MySQL or PostgreSQL
// provider. Both expose the same resource shape.
type DatabaseEngine string

const (
	MySQL      DatabaseEngine = "Microsoft.DBforMySQL"
	PostgreSQL DatabaseEngine = "Microsoft.DBforPostgreSQL"
)

func (m *Management) dbServerPath(engine DatabaseEngine, resourceGroup, server, suffix string) string {
	return m.link(resourceGroup, string(engine)+"/servers/"+server+suffix)
}

func (m *Management) dbVersion(engine DatabaseEngine) string {
	return m.version(string(engine), "servers")
}

// DatabaseServers lists the servers of engine.
func (m *Management) DatabaseServers(ctx context.Context, engine DatabaseEngine, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, string(engine)+" servers",
		m.link(resourceGroup, string(engine)+"/servers"),
		m.dbVersion(engine), nil)
}

// DatabaseServer gets one server of engine.
func (m *Management) DatabaseServer(ctx context.Context, engine DatabaseEngine, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, string(engine)+" server",
		m.dbServerPath(engine, resourceGroup, name, ""),
		m.dbVersion(engine), nil)
}

// DatabaseServerFirewallRules lists the firewall rules of a server.
func (m *Management) DatabaseServerFirewallRules(ctx context.Context, engine DatabaseEngine, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, string(engine)+" firewall rules",
		m.dbServerPath(engine, resourceGroup, server, "/firewallRules"),
		m.dbVersion(engine), nil)
}

// DatabaseServerConfigurations lists the server parameters of a server.
func (m *Management) DatabaseServerConfigurations(ctx context.Context, engine DatabaseEngine, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, string(engine)+" configurations",
		m.dbServerPath(engine, resourceGroup, server, "/configurations"),
		m.dbVersion(engine), nil)
}

// Database gets one database of a server.
func (m *Management) Database(ctx context.Context, engine DatabaseEngine, resourceGroup, server, database string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server, "database", database); err != nil {
		return nil, err
	}

	return m.get(ctx, string(engine)+" database",
		m.dbServerPath(engine, resourceGroup, server, "/databases/"+database),
		m.dbVersion(engine), nil)
}

// Databases lists the databases of a server.
func (m *Management) Databases(ctx context.Context, engine DatabaseEngine, resourceGroup, server string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "server", server); err != nil {
		return nil, err
	}

	return m.get(ctx, string(engine)+" databases",
		m.dbServerPath(engine, resourceGroup, server, "/databases"),
		m.dbVersion(engine), nil)
}
