package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

type sharedKeyOpener func(serviceURL, accountName, accountKey string, options *azblob.ClientOptions) (*BlobService, error)

// BlobAccess opens the blob data plane of storage accounts found through
// Management. With a credential every account is reached through Entra ID;
// without one the account key is listed and used.
type BlobAccess struct {
	management *Management
	credential azcore.TokenCredential
	options    *azblob.ClientOptions

	openSharedKey sharedKeyOpener

	mu       sync.Mutex
	services map[string]*BlobService
}

// NewBlobAccess creates blob access over management. credential may be nil.
func NewBlobAccess(management *Management, credential azcore.TokenCredential, options *azblob.ClientOptions) *BlobAccess {
	return &BlobAccess{
		management:    management,
		credential:    credential,
		options:       options,
		openSharedKey: NewBlobServiceWithSharedKey,
		services:      make(map[string]*BlobService),
	}
}

// Service returns the blob service of a storage account, opening it on
// first use.
func (b *BlobAccess) Service(ctx context.Context, resourceGroup, account string) (*BlobService, error) {
	key := resourceGroup + "/" + account

	b.mu.Lock()
	service, ok := b.services[key]
	b.mu.Unlock()

	if ok {
		return service, nil
	}

	service, err := b.open(ctx, resourceGroup, account)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.services[key] = service
	b.mu.Unlock()

	return service, nil
}

func (b *BlobAccess) open(ctx context.Context, resourceGroup, account string) (*BlobService, error) {
	accounts, err := b.management.StorageAccount(ctx, resourceGroup, account)
	if err != nil {
		return nil, err
	}

	if len(accounts) != 1 {
		return nil, fmt.Errorf("%w: %s", ErrNoBlobEndpoint, account)
	}

	endpoint, err := BlobEndpoint(accounts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, account)
	}

	if b.credential != nil {
		return NewBlobService(endpoint, b.credential, b.options)
	}

	keys, err := b.management.StorageAccountKeys(ctx, resourceGroup, account)
	if err != nil {
		return nil, err
	}

	accountKey, err := StorageAccountKey(keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, account)
	}

	return b.openSharedKey(endpoint, account, accountKey, b.options)
}

// ContainerPolicies reads the stored access policies of a container.
func (b *BlobAccess) ContainerPolicies(ctx context.Context, resourceGroup, account, containerName string) ([]*azrm.Record, error) {
	if err := checkArgs("resource group", resourceGroup, "storage account", account, "container", containerName); err != nil {
		return nil, err
	}

	service, err := b.Service(ctx, resourceGroup, account)
	if err != nil {
		return nil, err
	}

	return service.ContainerPolicies(ctx, containerName)
}
