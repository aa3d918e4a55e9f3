package resources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/resources"
)

func TestLookupKind(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"virtual_machines", "virtual-machines", "azurerm_virtual_machines", "Virtual_Machines"} {
		kind, err := resources.LookupKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, "virtual_machines", kind.Name)
	}

	_, err := resources.LookupKind("teapots")
	require.ErrorIs(t, err, resources.ErrUnknownKind)
}

func TestKinds_Sorted(t *testing.T) {
	t.Parallel()

	kinds := resources.Kinds()
	require.NotEmpty(t, kinds)

	for i := 1; i < len(kinds); i++ {
		assert.Less(t, kinds[i-1].Name, kinds[i].Name)
	}

	for _, kind := range kinds {
		assert.True(t, kind.HasCollection(), kind.Name)
		assert.NotEmpty(t, kind.Description, kind.Name)
	}
}

func TestKind_RequiredArguments(t *testing.T) {
	t.Parallel()

	res := resources.New(newFakeSource())

	kind, err := resources.LookupKind("subnets")
	require.NoError(t, err)

	_, err = kind.Collection(context.Background(), res, resources.Query{ResourceGroup: "rg"})
	require.ErrorIs(t, err, resources.ErrMissingArgument)
	assert.Contains(t, err.Error(), "--parent")

	_, err = kind.Single(context.Background(), res, resources.Query{ResourceGroup: "rg", Parent: "vnet", Name: "x"})
	require.ErrorIs(t, err, resources.ErrNotSingular)
}

func TestKind_Exists(t *testing.T) {
	t.Parallel()

	source := newFakeSource().with(t, "VirtualMachines", linuxVM)
	res := resources.New(source, resources.WithContainerPolicies(&fakePolicies{}))
	ctx := context.Background()

	vms, err := resources.LookupKind("virtual_machines")
	require.NoError(t, err)

	exists, err := vms.Exists(ctx, res, resources.Query{ResourceGroup: "prod"})
	require.NoError(t, err)
	assert.True(t, exists)

	// A name switches to the single resource query, which has no answer.
	exists, err = vms.Exists(ctx, res, resources.Query{ResourceGroup: "prod", Name: "web-9"})
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, []string{"VirtualMachines(prod)", "VirtualMachine(prod,web-9)"}, source.calls)

	acls, err := resources.LookupKind("blob_container_acls")
	require.NoError(t, err)

	exists, err = acls.Exists(ctx, res, resources.Query{ResourceGroup: "rg", Parent: "sa", Name: "logs"})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestKind_Columns(t *testing.T) {
	t.Parallel()

	for _, kind := range resources.Kinds() {
		columns := kind.Columns()
		require.NotEmpty(t, columns, kind.Name)

		if kind.Name != "blob_container_acls" {
			assert.Equal(t, []string{"names", "ids", "locations", "types", "resource_groups", "tags"}, columns[:6], kind.Name)
		}
	}

	vms, err := resources.LookupKind("virtual_machines")
	require.NoError(t, err)
	assert.Contains(t, vms.Columns(), "platforms")
	assert.Contains(t, vms.Columns(), "vm_names")
}
