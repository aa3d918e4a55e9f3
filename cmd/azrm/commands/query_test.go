package commands

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
	"github.com/fivetwenty-io/azrm/pkg/resources"
)

func TestQuery_CollectionWithFilterAndColumns(t *testing.T) {
	useFakeARM(t)
	viper.Set("output", OutputFormatJSON)

	out, err := execute(t, NewQueryCommand(), "virtual-machines",
		"--where", "platforms=linux", "--columns", "names,platforms,resource_groups")
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{
		{"names": "web-1", "platforms": "linux", "resource_groups": "prod"},
	}, decodeRows(t, out))
}

func TestQuery_JQFilter(t *testing.T) {
	useFakeARM(t)
	viper.Set("output", OutputFormatJSON)

	out, err := execute(t, NewQueryCommand(), "virtual_machines",
		"--jq", `.properties.osProfile | has("windowsConfiguration")`, "--columns", "names")
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{{"names": "win-1"}}, decodeRows(t, out))
}

func TestQuery_AllColumnsInRegistrationOrder(t *testing.T) {
	useFakeARM(t)
	viper.Set("output", OutputFormatJSON)

	out, err := execute(t, NewQueryCommand(), "virtual_machines")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 2)

	kind, err := resources.LookupKind("virtual_machines")
	require.NoError(t, err)

	for _, column := range kind.Columns() {
		assert.Contains(t, rows[0], column)
	}

	assert.Equal(t, "Standard_B2s", rows[0]["vm_sizes"])
	assert.Equal(t, "web-1-os", rows[0]["os_disks"])
}

func TestQuery_SingleResourceYAML(t *testing.T) {
	useFakeARM(t)
	viper.Set("output", OutputFormatYAML)

	out, err := execute(t, NewQueryCommand(), "virtual_machines", "-g", "prod", "-n", "web-1")
	require.NoError(t, err)

	assert.Contains(t, out, "name: web-1")
	assert.Contains(t, out, "resource_group: prod")
	assert.Less(t, strings.Index(out, "id:"), strings.Index(out, "name:"))
}

func TestQuery_TableOutput(t *testing.T) {
	useFakeARM(t)

	out, err := execute(t, NewQueryCommand(), "virtual_machines", "--columns", "names,platforms")
	require.NoError(t, err)

	assert.Contains(t, strings.ToUpper(out), "NAMES")
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "windows")
}

func TestQuery_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		noCalls bool
	}{
		{name: "unknown kind", args: []string{"spaceships"}, wantErr: resources.ErrUnknownKind, noCalls: true},
		{name: "bad predicate", args: []string{"virtual_machines", "--where", "platforms"}, wantErr: azrm.ErrInvalidPredicate, noCalls: true},
		{name: "bad jq", args: []string{"virtual_machines", "--jq", ".[["}, wantErr: azrm.ErrInvalidPredicate, noCalls: true},
		{
			name: "filter on single", args: []string{"virtual_machines", "-g", "prod", "-n", "web-1", "--where", "platforms=linux"},
			wantErr: ErrFiltersNeedCollection, noCalls: true,
		},
		{name: "missing parent", args: []string{"subnets", "-g", "prod"}, wantErr: resources.ErrMissingArgument, noCalls: true},
		{name: "unknown column in filter", args: []string{"virtual_machines", "--where", "colour=red"}, wantErr: azrm.ErrUnknownColumn},
		{name: "unknown column in selection", args: []string{"virtual_machines", "--columns", "colour"}, wantErr: azrm.ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := useFakeARM(t)

			_, err := execute(t, NewQueryCommand(), tt.args...)
			require.ErrorIs(t, err, tt.wantErr)

			if tt.noCalls {
				assert.Zero(t, requests.Load())
			}
		})
	}
}

func TestQuery_NotFoundSingle(t *testing.T) {
	useFakeARM(t)

	_, err := execute(t, NewQueryCommand(), "virtual_machines", "-g", "prod", "-n", "gone")
	require.Error(t, err)
	assert.True(t, azrm.IsNotFound(err))
}

func TestQuery_RequiresSubscription(t *testing.T) {
	resetViper(t)
	t.Setenv("AZURE_SUBSCRIPTION_ID", "")

	_, err := execute(t, NewQueryCommand(), "virtual_machines")
	require.ErrorIs(t, err, constants.ErrNoSubscription)
}

func TestQuery_InvalidOutput(t *testing.T) {
	useFakeARM(t)
	viper.Set("output", "xml")

	_, err := execute(t, NewQueryCommand(), "virtual_machines")
	require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)
}
