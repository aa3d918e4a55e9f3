package azrm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

const testProfiles = `
default: latest
profiles:
  latest:
    Microsoft.Compute:
      virtualMachines: "2019-07-01"
      disks: "2019-07-01"
    Microsoft.Storage:
      storageAccounts: "2019-06-01"
  2017-03-09-profile:
    Microsoft.Compute:
      virtualMachines: "2016-03-30"
`

func TestLoadProfiles(t *testing.T) {
	t.Parallel()

	registry, err := azrm.LoadProfiles([]byte(testProfiles))
	require.NoError(t, err)

	assert.Equal(t, "latest", registry.DefaultName())
	assert.Equal(t, []string{"2017-03-09-profile", "latest"}, registry.Names())

	profile, ok := registry.Lookup("latest")
	require.True(t, ok)
	assert.Equal(t, []azrm.ProfileEntry{
		{Provider: "Microsoft.Compute", ResourceType: "disks", APIVersion: "2019-07-01"},
		{Provider: "Microsoft.Compute", ResourceType: "virtualMachines", APIVersion: "2019-07-01"},
		{Provider: "Microsoft.Storage", ResourceType: "storageAccounts", APIVersion: "2019-06-01"},
	}, profile.Entries())
}

func TestLoadProfiles_Errors(t *testing.T) {
	t.Parallel()

	_, err := azrm.LoadProfiles([]byte(`default: latest`))
	require.ErrorIs(t, err, azrm.ErrNoProfiles)

	_, err = azrm.LoadProfiles([]byte("default: missing\nprofiles:\n  latest: {}\n"))
	require.ErrorIs(t, err, azrm.ErrDefaultProfileNotFound)

	_, err = azrm.LoadProfiles([]byte("profiles: [1, 2"))
	require.Error(t, err)

	_, err = azrm.LoadProfiles([]byte(`profiles:
  latest:
    Microsoft.Compute:
      virtualMachines: "2019-07-01"
    microsoft.compute:
      VirtualMachines: "2018-06-01"
`))
	require.ErrorIs(t, err, azrm.ErrDuplicateProfileEntry)

	_, err = azrm.LoadProfiles([]byte(`profiles:
  latest:
    Microsoft.Compute:
      virtualMachines: "2019-07-01"
      VIRTUALMACHINES: "2018-06-01"
`))
	require.ErrorIs(t, err, azrm.ErrDuplicateProfileEntry)
}

func TestResolveVersion(t *testing.T) {
	t.Parallel()

	registry, err := azrm.LoadProfiles([]byte(testProfiles))
	require.NoError(t, err)

	tests := []struct {
		name         string
		profile      string
		provider     string
		resourceType string
		want         string
	}{
		{name: "pinned in named profile", profile: "2017-03-09-profile", provider: "Microsoft.Compute", resourceType: "virtualMachines", want: "2016-03-30"},
		{name: "missing pair falls back to default", profile: "2017-03-09-profile", provider: "Microsoft.Storage", resourceType: "storageAccounts", want: "2019-06-01"},
		{name: "unknown profile uses default", profile: "no-such-profile", provider: "Microsoft.Compute", resourceType: "virtualMachines", want: "2019-07-01"},
		{name: "case insensitive", profile: "latest", provider: "microsoft.compute", resourceType: "VIRTUALMACHINES", want: "2019-07-01"},
		{name: "unknown everywhere", profile: "latest", provider: "Microsoft.Nope", resourceType: "things", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, registry.ResolveVersion(tt.profile, tt.provider, tt.resourceType))
		})
	}
}

func TestResolveVersion_LogsFallback(t *testing.T) {
	t.Parallel()

	base, err := azrm.LoadProfiles([]byte(testProfiles))
	require.NoError(t, err)

	logger := &MockLogger{}
	registry := base.WithLogger(logger)

	assert.Equal(t, "2019-06-01", registry.ResolveVersion("2017-03-09-profile", "Microsoft.Storage", "storageAccounts"))
	assert.Equal(t, "", registry.ResolveVersion("bogus", "Microsoft.Nope", "things"))

	assert.Equal(t, []string{"api-version fallback", "profile fallback", "no api-version for resource type"}, logger.messages())
}

func TestBuiltinProfiles(t *testing.T) {
	t.Parallel()

	registry := azrm.BuiltinProfiles()
	assert.Equal(t, azrm.DefaultProfileName, registry.DefaultName())

	for _, name := range []string{"latest", "2019-03-01-hybrid", "2018-03-01-hybrid", "2017-03-09-profile"} {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, name)
	}

	assert.NotEmpty(t, registry.ResolveVersion("latest", "Microsoft.Compute", "virtualMachines"))
	assert.NotEmpty(t, registry.ResolveVersion("2017-03-09-profile", "Microsoft.Web", "sites"))
	assert.Same(t, registry, azrm.BuiltinProfiles())
}

func TestActiveProfile(t *testing.T) {
	t.Parallel()

	registry, err := azrm.LoadProfiles([]byte(testProfiles))
	require.NoError(t, err)

	active := registry.Active("")
	assert.Equal(t, "latest", active.Name())
	assert.Equal(t, "2019-07-01", active.APIVersion("Microsoft.Compute", "virtualMachines"))

	pinned := registry.Active("2017-03-09-profile")
	assert.Equal(t, "2016-03-30", pinned.APIVersion("Microsoft.Compute", "virtualMachines"))
}

func TestActiveProfileName(t *testing.T) {
	t.Parallel()

	env := func(values map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := values[key]

			return v, ok
		}
	}

	assert.Equal(t, "latest", azrm.ActiveProfileName(nil))
	assert.Equal(t, "latest", azrm.ActiveProfileName(env(nil)))
	assert.Equal(t, "latest", azrm.ActiveProfileName(env(map[string]string{azrm.ProfileEnvVar: "  "})))
	assert.Equal(t, "2019-03-01-hybrid", azrm.ActiveProfileName(env(map[string]string{azrm.ProfileEnvVar: "2019-03-01-hybrid"})))

	cfg := &azrm.Config{Profile: "2018-03-01-hybrid"}
	assert.Equal(t, "2018-03-01-hybrid", cfg.ProfileName(env(map[string]string{azrm.ProfileEnvVar: "2019-03-01-hybrid"})))
}
