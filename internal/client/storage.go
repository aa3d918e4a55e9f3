package client

import (
	"context"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// StorageAccount gets one storage account.
func (m *Management) StorageAccount(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.get(ctx, "storage account",
		m.link(resourceGroup, "Microsoft.Storage/storageAccounts/"+name),
		m.version("Microsoft.Storage", "storageAccounts"), nil)
}

// StorageAccounts lists storage accounts.
func (m *Management) StorageAccounts(ctx context.Context, resourceGroup string) ([]*azrm.Record, error) {
	return m.get(ctx, "storage accounts",
		m.link(resourceGroup, "Microsoft.Storage/storageAccounts"),
		m.version("Microsoft.Storage", "storageAccounts"), nil)
}

// StorageAccountKeys lists the access keys of a storage account. The
// result is a single record holding a "keys" array.
func (m *Management) StorageAccountKeys(ctx context.Context, resourceGroup, name string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "name", name); err != nil {
		return nil, err
	}

	return m.post(ctx, "storage account keys",
		m.link(resourceGroup, "Microsoft.Storage/storageAccounts/"+name+"/listKeys"),
		m.version("Microsoft.Storage", "storageAccounts"), nil)
}

// BlobContainer gets one blob container of a storage account.
func (m *Management) BlobContainer(ctx context.Context, resourceGroup, account, container string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "storage account", account, "container", container); err != nil {
		return nil, err
	}

	return m.get(ctx, "blob container",
		m.link(resourceGroup, "Microsoft.Storage/storageAccounts/"+account+"/blobServices/default/containers/"+container),
		m.version("Microsoft.Storage", "storageAccounts/blobServices"), nil)
}

// BlobContainers lists the blob containers of a storage account.
func (m *Management) BlobContainers(ctx context.Context, resourceGroup, account string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "storage account", account); err != nil {
		return nil, err
	}

	return m.get(ctx, "blob containers",
		m.link(resourceGroup, "Microsoft.Storage/storageAccounts/"+account+"/blobServices/default/containers"),
		m.version("Microsoft.Storage", "storageAccounts/blobServices"), nil)
}
