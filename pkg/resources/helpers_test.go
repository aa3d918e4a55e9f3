package resources_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// fakeSource answers every query from canned records keyed by method name.
type fakeSource struct {
	records map[string][]*azrm.Record
	err     error
	calls   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{records: map[string][]*azrm.Record{}}
}

func (f *fakeSource) with(t *testing.T, method string, docs ...string) *fakeSource {
	t.Helper()

	for _, doc := range docs {
		rec, err := azrm.DecodeRecord([]byte(doc))
		require.NoError(t, err)

		f.records[method] = append(f.records[method], rec)
	}

	return f
}

func (f *fakeSource) answer(method string, args ...string) ([]*azrm.Record, error) {
	f.calls = append(f.calls, method+"("+strings.Join(args, ",")+")")

	if f.err != nil {
		return nil, f.err
	}

	return f.records[method], nil
}

func (f *fakeSource) VirtualMachines(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("VirtualMachines", rg)
}

func (f *fakeSource) VirtualMachine(_ context.Context, rg, name string) ([]*azrm.Record, error) {
	return f.answer("VirtualMachine", rg, name)
}

func (f *fakeSource) Disks(context.Context) ([]*azrm.Record, error) {
	return f.answer("Disks")
}

func (f *fakeSource) StorageAccounts(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("StorageAccounts", rg)
}

func (f *fakeSource) StorageAccount(_ context.Context, rg, name string) ([]*azrm.Record, error) {
	return f.answer("StorageAccount", rg, name)
}

func (f *fakeSource) ResourceGroups(context.Context) ([]*azrm.Record, error) {
	return f.answer("ResourceGroups")
}

func (f *fakeSource) ResourceGroup(_ context.Context, name string) ([]*azrm.Record, error) {
	return f.answer("ResourceGroup", name)
}

func (f *fakeSource) KeyVaults(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("KeyVaults", rg)
}

func (f *fakeSource) KeyVault(_ context.Context, rg, name string) ([]*azrm.Record, error) {
	return f.answer("KeyVault", rg, name)
}

func (f *fakeSource) NetworkSecurityGroups(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("NetworkSecurityGroups", rg)
}

func (f *fakeSource) NetworkSecurityGroup(_ context.Context, rg, name string) ([]*azrm.Record, error) {
	return f.answer("NetworkSecurityGroup", rg, name)
}

func (f *fakeSource) VirtualNetworks(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("VirtualNetworks", rg)
}

func (f *fakeSource) Subnets(_ context.Context, rg, vnet string) ([]*azrm.Record, error) {
	return f.answer("Subnets", rg, vnet)
}

func (f *fakeSource) SQLServers(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("SQLServers", rg)
}

func (f *fakeSource) SQLDatabases(_ context.Context, rg, server string) ([]*azrm.Record, error) {
	return f.answer("SQLDatabases", rg, server)
}

func (f *fakeSource) WebApps(_ context.Context, rg string) ([]*azrm.Record, error) {
	return f.answer("WebApps", rg)
}

// fakePolicies serves container policies.
type fakePolicies struct {
	records []*azrm.Record
	err     error
}

func (f *fakePolicies) ContainerPolicies(context.Context, string, string, string) ([]*azrm.Record, error) {
	return f.records, f.err
}
