package resources_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
	"github.com/fivetwenty-io/azrm/pkg/resources"
)

func policyRecords(t *testing.T) []*azrm.Record {
	t.Helper()

	docs := []string{
		`{"id":"read-only","access_policy":{"start":"2024-01-01T00:00:00Z","permission":"r"}}`,
		`{"id":"full","AccessPolicy":{"Start":"2024-01-01T00:00:00Z","Expiry":"2025-01-01T00:00:00Z","Permission":"rwdl"}}`,
		`{"id":"bare"}`,
	}

	records := make([]*azrm.Record, 0, len(docs))

	for _, doc := range docs {
		rec, err := azrm.DecodeRecord([]byte(doc))
		require.NoError(t, err)

		records = append(records, rec)
	}

	return records
}

func TestBlobContainerAcls(t *testing.T) {
	t.Parallel()

	res := resources.New(newFakeSource(), resources.WithContainerPolicies(&fakePolicies{records: policyRecords(t)}))
	acls := res.BlobContainerAcls(context.Background(), "rg", "sa", "logs")

	assert.Equal(t, "logs", acls.Name())

	exists, err := acls.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	tests := []struct {
		column string
		want   []any
	}{
		{"ids", []any{"read-only", "full", "bare"}},
		{"names", []any{"read-only", "full", "bare"}},
		{"permissions", []any{"r", "rwdl", nil}},
		{"start_times", []any{"2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", nil}},
		{"expiration_times", []any{nil, "2025-01-01T00:00:00Z", nil}},
	}

	for _, tt := range tests {
		values, err := acls.Column(tt.column)
		require.NoError(t, err, tt.column)
		assert.Equal(t, tt.want, values, tt.column)
	}

	entries, err := acls.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"names", "ids", "permissions", "start_times", "expiration_times"}, entries[0].Names())

	// Required fields are present as explicit nulls.
	table, err := acls.Table()
	require.NoError(t, err)

	expiry, ok := table.Records()[0].Lookup("expiry")
	assert.True(t, ok)
	assert.Nil(t, expiry)
}

func TestBlobContainerAcls_NoPolicies(t *testing.T) {
	t.Parallel()

	res := resources.New(newFakeSource(), resources.WithContainerPolicies(&fakePolicies{}))
	acls := res.BlobContainerAcls(context.Background(), "rg", "sa", "empty")

	exists, err := acls.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 0, acls.Count())
}

func TestBlobContainerAcls_Errors(t *testing.T) {
	t.Parallel()

	acls := resources.New(newFakeSource()).BlobContainerAcls(context.Background(), "rg", "sa", "logs")

	_, err := acls.Exists()
	require.ErrorIs(t, err, resources.ErrContainerPoliciesUnavailable)

	errDenied := errors.New("denied")
	res := resources.New(newFakeSource(), resources.WithContainerPolicies(&fakePolicies{err: errDenied}))

	_, err = res.BlobContainerAcls(context.Background(), "rg", "sa", "logs").Column("ids")
	require.ErrorIs(t, err, errDenied)
}

func TestStorageAccounts(t *testing.T) {
	t.Parallel()

	source := newFakeSource().with(t, "StorageAccounts",
		`{"id":"/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa1","name":"sa1","kind":"StorageV2","sku":{"name":"Standard_LRS"},"properties":{"supportsHttpsTrafficOnly":true}}`,
		`{"id":"/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa2","name":"sa2","kind":"Storage","sku":{"name":"Standard_GRS"},"properties":{"supportsHttpsTrafficOnly":false}}`,
	)

	accounts := resources.New(source).StorageAccounts(context.Background(), "rg")

	insecure, err := accounts.Where(azrm.Eq("https_only", false))
	require.NoError(t, err)

	names, err := insecure.Column("names")
	require.NoError(t, err)
	assert.Equal(t, []any{"sa2"}, names)

	skus, err := accounts.Column("skus")
	require.NoError(t, err)
	assert.Equal(t, []any{"Standard_LRS", "Standard_GRS"}, skus)
}

func TestStorageAccount(t *testing.T) {
	t.Parallel()

	source := newFakeSource().with(t, "StorageAccount", `{"name":"sa1","properties":{"primaryEndpoints":{"blob":"https://sa1.blob.core.windows.net/"}}}`)

	account := resources.New(source).StorageAccount(context.Background(), "rg", "sa1")

	exists, err := account.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	endpoint, ok := account.Dig("properties", "primaryEndpoints", "blob")
	assert.True(t, ok)
	assert.Equal(t, "https://sa1.blob.core.windows.net/", endpoint)
	assert.Equal(t, []string{"StorageAccount(rg,sa1)"}, source.calls)
}
