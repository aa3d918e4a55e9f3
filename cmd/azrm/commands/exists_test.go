package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

func TestExists(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode int
	}{
		{name: "named resource", args: []string{"virtual_machines", "-g", "prod", "-n", "web-1"}, wantOut: "true\n", wantCode: ExitExists},
		{name: "named resource missing", args: []string{"virtual_machines", "-g", "prod", "-n", "gone"}, wantOut: "false\n", wantCode: ExitNotExists},
		{name: "collection", args: []string{"virtual_machines"}, wantOut: "true\n", wantCode: ExitExists},
		{name: "filtered collection", args: []string{"virtual_machines", "--where", "platforms=windows"}, wantOut: "true\n", wantCode: ExitExists},
		{name: "filtered to nothing", args: []string{"virtual_machines", "--where", "locations=eastus"}, wantOut: "false\n", wantCode: ExitNotExists},
		{name: "quiet", args: []string{"virtual_machines", "-q", "--where", "locations=eastus"}, wantOut: "", wantCode: ExitNotExists},
		{name: "failed query", args: []string{"disks"}, wantOut: "", wantCode: ExitFailed},
		{name: "bad predicate", args: []string{"virtual_machines", "--where", "="}, wantOut: "", wantCode: ExitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useFakeARM(t)

			out, err := execute(t, NewExistsCommand(), tt.args...)
			assert.Equal(t, tt.wantOut, out)
			assert.Equal(t, tt.wantCode, ExitCode(err))
		})
	}
}

func TestExists_FailureKeepsCause(t *testing.T) {
	useFakeARM(t)

	_, err := execute(t, NewExistsCommand(), "virtual_machines", "--where", "platforms")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitFailed, exitErr.Code)
	assert.ErrorIs(t, err, azrm.ErrInvalidPredicate)
}
