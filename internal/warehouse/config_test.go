package warehouse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(map[string]string{
		EnvHost:     "https://h.example/",
		EnvToken:    " dapi-123 ",
		EnvHTTPPath: "/sql/1.0/warehouses/abc123",
	}))

	assert.Equal(t, "https://h.example", cfg.Host)
	assert.Equal(t, "dapi-123", cfg.Token)
	assert.Equal(t, "/sql/1.0/warehouses/abc123", cfg.HTTPPath)
	assert.Equal(t, DefaultWaitTimeout, cfg.WaitTimeout)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultPollTimeout, cfg.PollTimeout)
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Configured())
}

func TestNormalizeHost_StripsExactlyOneSlash(t *testing.T) {
	assert.Equal(t, "https://h.example", NormalizeHost("https://h.example/"))
	assert.Equal(t, "https://h.example", NormalizeHost("https://h.example"))
	assert.Equal(t, "https://h.example/", NormalizeHost("https://h.example//"))
}

func TestConfigValidate_Missing(t *testing.T) {
	full := map[string]string{EnvHost: "https://h", EnvToken: "t", EnvHTTPPath: "wh"}

	for _, key := range []string{EnvHost, EnvToken, EnvHTTPPath} {
		t.Run(key, func(t *testing.T) {
			values := map[string]string{}
			for k, v := range full {
				values[k] = v
			}
			values[key] = "   "

			cfg := ConfigFromEnv(envLookup(values))
			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, []string{key}, cfgErr.Missing)
			assert.Contains(t, err.Error(), key)
			assert.False(t, cfg.Configured())
		})
	}
}

func TestConfigValidate_AllMissing(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(nil))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, []string{EnvHost, EnvToken, EnvHTTPPath}, cfgErr.Missing)
}

func TestWarehouseID(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "abc123", want: "abc123"},
		{path: "/sql/1.0/warehouses/abc123", want: "abc123"},
		{path: "/sql/1.0/warehouses/abc123/extra", want: "abc123"},
		{path: "/sql/protocolv1/o/42/warehouses/def456", want: "def456"},
		{path: "/sql/1.0/endpoints/xyz", want: "/sql/1.0/endpoints/xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{HTTPPath: tt.path}.WarehouseID())
		})
	}
}

func TestWaitTimeoutParam(t *testing.T) {
	assert.Equal(t, "30s", waitTimeoutParam(DefaultWaitTimeout))
	assert.Equal(t, "0s", waitTimeoutParam(0))
	assert.Equal(t, "5s", waitTimeoutParam(time.Second))
	assert.Equal(t, "50s", waitTimeoutParam(120_000_000_000))
}
