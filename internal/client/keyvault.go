package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// KeyVaults lists key vaults.
func (m *Management) KeyVaults(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "key vaults",
		m.link(resourceGroup, "Microsoft.KeyVault/vaults"),
		m.version("Microsoft.KeyVault", "vaults"), nil)
}

// KeyVault gets one key vault.
func (m *Management) KeyVault(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "key vault",
		m.link(resourceGroup, "Microsoft.KeyVault/vaults/"+name),
		m.version("Microsoft.KeyVault", "vaults"), nil)
}

// KeyVaultDiagnosticSettings lists the diagnostic settings of a vault.
func (m *Management) KeyVaultDiagnosticSettings(ctx context.Context, vaultID string) ([]*azrm.Record, error) {
	return m.DiagnosticSettings(ctx, vaultID)
}
