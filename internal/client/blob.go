package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Static errors for err113 compliance.
var (
	ErrNoStorageKey   = errors.New("storage account returned no access key")
	ErrNoBlobEndpoint = errors.New("storage account has no blob endpoint")
)

// BlobService reads data plane settings of one storage account.
type BlobService struct {
	client *azblob.Client
}

// NewBlobService authenticates with an Entra ID credential.
func NewBlobService(serviceURL string, credential azcore.TokenCredential, options *azblob.ClientOptions) (*BlobService, error) {
	client, err := azblob.NewClient(serviceURL, credential, options)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	return &BlobService{client: client}, nil
}

// NewBlobServiceWithSharedKey authenticates with an account key.
func NewBlobServiceWithSharedKey(serviceURL, accountName, accountKey string, options *azblob.ClientOptions) (*BlobService, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("creating shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, options)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	return &BlobService{client: client}, nil
}

// NewAnonymousBlobService sends unauthenticated requests, for SAS URLs and
// tests.
func NewAnonymousBlobService(serviceURL string, options *azblob.ClientOptions) (*BlobService, error) {
	client, err := azblob.NewClientWithNoCredential(serviceURL, options)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	return &BlobService{client: client}, nil
}

// URL returns the service endpoint.
func (b *BlobService) URL() string {
	return b.client.URL()
}

// ContainerPolicies returns the stored access policies of a container, one
// record per signed identifier: {"id", "access_policy": {"start",
// "expiry", "permission"}}. Unset policy fields are omitted.
func (b *BlobService) ContainerPolicies(ctx context.Context, containerName string) ([]*azrm.Record, error) {
	if err := checkArgs("container", containerName); err != nil {
		return nil, err
	}

	containerClient := b.client.ServiceClient().NewContainerClient(containerName)

	resp, err := containerClient.GetAccessPolicy(ctx, nil)
	if err != nil {
		return nil, blobError(containerClient.URL(), err)
	}

	records := make([]*azrm.Record, 0, len(resp.SignedIdentifiers))
	for _, identifier := range resp.SignedIdentifiers {
		if identifier == nil {
			continue
		}

		records = append(records, signedIdentifierRecord(identifier))
	}

	return records, nil
}

func signedIdentifierRecord(identifier *container.SignedIdentifier) *azrm.Record {
	var fields []azrm.Field

	if identifier.ID != nil {
		fields = append(fields, azrm.F("id", *identifier.ID))
	}

	if policy := identifier.AccessPolicy; policy != nil {
		var policyFields []azrm.Field

		if policy.Start != nil {
			policyFields = append(policyFields, azrm.F("start", policy.Start.UTC().Format(time.RFC3339)))
		}

		if policy.Expiry != nil {
			policyFields = append(policyFields, azrm.F("expiry", policy.Expiry.UTC().Format(time.RFC3339)))
		}

		if policy.Permission != nil {
			policyFields = append(policyFields, azrm.F("permission", *policy.Permission))
		}

		fields = append(fields, azrm.F("access_policy", azrm.NewRecord(policyFields...)))
	}

	return azrm.NewRecord(fields...)
}

// blobError maps SDK failures onto FetchError so IsNotFound and friends
// work the same for data plane calls.
func blobError(target string, err error) error {
	respErr := &azcore.ResponseError{}
	if errors.As(err, &respErr) {
		return &azrm.FetchError{
			Method:     http.MethodGet,
			URL:        target,
			StatusCode: respErr.StatusCode,
			Detail:     respErr.ErrorCode,
			Err:        err,
		}
	}

	return &azrm.FetchError{Method: http.MethodGet, URL: target, Err: err}
}

// BlobEndpoint reads properties.primaryEndpoints.blob from a storage
// account record.
func BlobEndpoint(account *azrm.Record) (string, error) {
	if endpoint, ok := account.DigString("properties", "primaryEndpoints", "blob"); ok && endpoint != "" {
		return endpoint, nil
	}

	return "", ErrNoBlobEndpoint
}

// StorageAccountKey picks the first key of a listKeys answer.
func StorageAccountKey(records []*azrm.Record) (string, error) {
	if len(records) == 0 {
		return "", ErrNoStorageKey
	}

	for _, item := range records[0].DigSlice("keys") {
		key, ok := item.(*azrm.Record)
		if !ok {
			continue
		}

		if value, ok := key.DigString("value"); ok && value != "" {
			return value, nil
		}
	}

	return "", ErrNoStorageKey
}
