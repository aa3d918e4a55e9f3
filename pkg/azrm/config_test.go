package azrm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	var nilConfig *azrm.Config
	require.ErrorIs(t, nilConfig.Validate(), azrm.ErrConfigRequired)
	require.ErrorIs(t, (&azrm.Config{SubscriptionID: "  "}).Validate(), azrm.ErrSubscriptionIDRequired)
	require.NoError(t, (&azrm.Config{SubscriptionID: "00000000-0000-0000-0000-000000000000"}).Validate())
}

func TestConfig_ProfileName(t *testing.T) {
	t.Parallel()

	env := func(value string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			if key == azrm.ProfileEnvVar && value != "" {
				return value, true
			}

			return "", false
		}
	}

	assert.Equal(t, azrm.DefaultProfileName, azrm.ActiveProfileName(nil))
	assert.Equal(t, azrm.DefaultProfileName, azrm.ActiveProfileName(env("")))
	assert.Equal(t, "2019-03-01-hybrid", azrm.ActiveProfileName(env(" 2019-03-01-hybrid ")))

	config := &azrm.Config{Profile: "explicit"}
	assert.Equal(t, "explicit", config.ProfileName(env("from-env")))

	config.Profile = ""
	assert.Equal(t, "from-env", config.ProfileName(env("from-env")))
}
