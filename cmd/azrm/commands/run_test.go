package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	linuxVM = `{
		"id": "/subscriptions/sub/resourceGroups/prod/providers/Microsoft.Compute/virtualMachines/web-1",
		"name": "web-1",
		"location": "westeurope",
		"properties": {
			"hardwareProfile": {"vmSize": "Standard_B2s"},
			"osProfile": {"linuxConfiguration": {}},
			"storageProfile": {"osDisk": {"name": "web-1-os"}}
		}
	}`
	windowsVM = `{
		"id": "/subscriptions/sub/resourceGroups/prod/providers/Microsoft.Compute/virtualMachines/win-1",
		"name": "win-1",
		"location": "westeurope",
		"properties": {"osProfile": {"windowsConfiguration": {}}}
	}`
)

// useFakeARM points the CLI configuration at a fake management endpoint
// serving two virtual machines. It returns the request counter.
func useFakeARM(t *testing.T) *atomic.Int32 {
	t.Helper()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)

		assert.Equal(t, "Bearer tok", request.Header.Get("Authorization"))

		path := strings.ToLower(strings.TrimSuffix(request.URL.Path, "/"))

		switch path {
		case "/subscriptions/sub/providers/microsoft.compute/virtualmachines":
			_, _ = writer.Write([]byte(`{"value":[` + linuxVM + `,` + windowsVM + `]}`))
		case "/subscriptions/sub/resourcegroups/prod/providers/microsoft.compute/virtualmachines/web-1":
			_, _ = writer.Write([]byte(linuxVM))
		default:
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error":{"code":"ResourceNotFound","message":"not found"}}`))
		}
	}))
	t.Cleanup(server.Close)

	resetViper(t)
	viper.Set("subscription_id", "sub")
	viper.Set("token", "tok")
	viper.Set("endpoint", server.URL)
	viper.Set("retry_max", 0)

	return &requests
}

func resetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("no-color", true)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func decodeRows(t *testing.T, out string) []map[string]any {
	t.Helper()

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))

	return rows
}
