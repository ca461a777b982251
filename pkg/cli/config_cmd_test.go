package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"short", "abc", "****"},
		{"exactly_10", "1234567890", "****"},
		{"long_token", "dapi0123456789abcdef", "dapi****cdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}

func TestMaskConfig(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {
				Host:  "http://localhost:8080",
				Token: "sre-token-1234567890",
			},
		},
	}

	masked := maskConfig(cfg)

	assert.Equal(t, "http://localhost:8080", masked.Profiles["default"].Host)
	assert.Equal(t, "default", masked.CurrentProfile)
	assert.Equal(t, "sre-****7890", masked.Profiles["default"].Token)

	// Original config not mutated.
	assert.Equal(t, "sre-token-1234567890", cfg.Profiles["default"].Token)
}

func TestConfigShow_TableOutput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearSREEnv(t)

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://localhost:8080", Token: "tok_default_abcdef", Output: "table"},
			"prod":    {Host: "https://sre.example.com"},
		},
	}))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "show"})
	done := captureStdout(t)
	require.NoError(t, rootCmd.Execute())
	output := done()

	assert.Contains(t, output, "PROFILE")
	assert.Contains(t, output, "ACTIVE")
	assert.Contains(t, output, "https://sre.example.com")
	assert.Contains(t, output, "*")
	assert.NotContains(t, output, "tok_default_abcdef")
}

func TestConfigSetAndUseProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearSREEnv(t)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "prod", "--host", "https://sre.example.com", "--token", "secret"})
	done := captureStdout(t)
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, done(), `Profile "prod" saved`)

	rootCmd = newRootCmd()
	rootCmd.SetArgs([]string{"config", "use-profile", "prod"})
	done = captureStdout(t)
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, done(), `Active profile set to "prod"`)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.CurrentProfile)
	assert.Equal(t, Profile{Host: "https://sre.example.com", Token: "secret"}, cfg.Profiles["prod"])
}

func TestConfigSetProfile_NormalizesHostAndOutput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearSREEnv(t)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "prod", "--host", "https://sre.example.com/", "--output", "JSON"})
	done := captureStdout(t)
	require.NoError(t, rootCmd.Execute())
	done()

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, Profile{Host: "https://sre.example.com", Output: "json"}, cfg.Profiles["prod"])
}

func TestConfigSetProfile_RejectsBadHost(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearSREEnv(t)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "x", "--host", "localhost:8080"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestConfigUseProfile_Unknown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearSREEnv(t)
	require.NoError(t, SaveUserConfig(&UserConfig{CurrentProfile: "default", Profiles: map[string]Profile{}}))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "use-profile", "nope"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "nope" not found`)
}
