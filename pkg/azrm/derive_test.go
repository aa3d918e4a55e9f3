package azrm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

func platformPipeline() *azrm.Pipeline {
	return azrm.NewPipeline(
		azrm.Classify("platform", "unknown",
			azrm.WhenPresent("windows-vm", "properties", "osProfile", "windowsConfiguration"),
			azrm.WhenPresent("linux-vm", "properties", "osProfile", "linuxConfiguration"),
		),
		azrm.LeafName("os_disk", "properties", "storageProfile", "osDisk", "name"),
		azrm.SelectProject("data_disks", []string{"properties", "storageProfile", "dataDisks"}, "managedDisk", "name"),
		azrm.LeafNames("network_interfaces", []string{"properties", "networkProfile", "networkInterfaces"}, "id"),
		azrm.DefaultNull("tags"),
	)
}

func decode(t *testing.T, body string) *azrm.Record {
	t.Helper()

	rec, err := azrm.DecodeRecord([]byte(body))
	require.NoError(t, err)

	return rec
}

func TestPipeline_Platform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "windows", body: `{"properties":{"osProfile":{"windowsConfiguration":{"provisionVMAgent":true}}}}`, want: "windows-vm"},
		{name: "linux", body: `{"properties":{"osProfile":{"linuxConfiguration":{"disablePasswordAuthentication":true}}}}`, want: "linux-vm"},
		{name: "null windows flag", body: `{"properties":{"osProfile":{"windowsConfiguration":null}}}`, want: "windows-vm"},
		{name: "null linux flag", body: `{"properties":{"osProfile":{"linuxConfiguration":null}}}`, want: "linux-vm"},
		{name: "null os profile", body: `{"properties":{"osProfile":null}}`, want: "unknown"},
		{name: "neither", body: `{"properties":{"osProfile":{}}}`, want: "unknown"},
		{name: "no os profile", body: `{"name":"vm"}`, want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := platformPipeline().ApplyOne(decode(t, tt.body))
			assert.Equal(t, tt.want, out.Get("platform"))
		})
	}
}

func TestPipeline_DerivedCollections(t *testing.T) {
	t.Parallel()

	rec := decode(t, `{
		"name": "vm1",
		"tags": {"env": "prod"},
		"properties": {
			"storageProfile": {
				"osDisk": {"name": "vm1_OsDisk_1"},
				"dataDisks": [
					{"name": "data0", "managedDisk": {"id": "x"}},
					{"name": "unmanaged0", "vhd": {"uri": "https://x/y.vhd"}},
					{"name": "data1", "managedDisk": {"id": "y"}}
				]
			},
			"networkProfile": {
				"networkInterfaces": [
					{"id": "/subscriptions/s/resourceGroups/rg/providers/Microsoft.Network/networkInterfaces/nic-a"},
					{"id": "nic-b"}
				]
			}
		}
	}`)

	out := platformPipeline().ApplyOne(rec)

	assert.Equal(t, "vm1_OsDisk_1", out.Get("os_disk"))
	assert.Equal(t, []any{"data0", "data1"}, out.Get("data_disks"))
	assert.Equal(t, []any{"nic-a", "nic-b"}, out.Get("network_interfaces"))

	tags, ok := out.DigString("tags", "env")
	assert.True(t, ok)
	assert.Equal(t, "prod", tags)

	assert.False(t, rec.Has("platform"), "input must not change")
}

func TestPipeline_MissingNestedDefaults(t *testing.T) {
	t.Parallel()

	out := platformPipeline().ApplyOne(decode(t, `{"name":"bare"}`))

	assert.Equal(t, "", out.Get("os_disk"))
	assert.Equal(t, []any{}, out.Get("data_disks"))
	assert.Equal(t, []any{}, out.Get("network_interfaces"))

	v, ok := out.Lookup("tags")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestPipeline_Idempotent(t *testing.T) {
	t.Parallel()

	records := []*azrm.Record{
		decode(t, `{"name":"a","properties":{"osProfile":{"linuxConfiguration":{}}}}`),
		decode(t, `{"name":"b","tags":null}`),
	}

	pipeline := platformPipeline()
	once := pipeline.Apply(records)
	twice := pipeline.Apply(once)

	require.Len(t, twice, len(once))

	for i := range once {
		assert.Equal(t, once[i].String(), twice[i].String())
	}
}

func TestPipeline_Then(t *testing.T) {
	t.Parallel()

	base := azrm.NewPipeline(azrm.Derive("upper", func(rec *azrm.Record) any { return "A" }))
	extended := base.Then(azrm.Derive("lower", func(rec *azrm.Record) any { return "a" }))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())

	out := extended.ApplyOne(azrm.NewRecord())
	assert.Equal(t, []string{"upper", "lower"}, out.Names())

	var empty *azrm.Pipeline
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, empty.ApplyOne(nil).Len())
}

func TestClassify_WhenEquals(t *testing.T) {
	t.Parallel()

	step := azrm.Classify("kind", "other",
		azrm.WhenEquals("function", "functionapp", "kind"),
		azrm.WhenEquals("web", "app", "kind"),
	)

	assert.Equal(t, "function", step(azrm.NewRecord(azrm.F("kind", "FunctionApp"))).Get("kind"))
	assert.Equal(t, "web", step(azrm.NewRecord(azrm.F("kind", "app"))).Get("kind"))
	assert.Equal(t, "other", step(azrm.NewRecord()).Get("kind"))
}
