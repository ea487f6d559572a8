package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"EMAIL",
	"PASSWORD",
	"GARMINTOKENS",
	"SECRET_KEY",
	"PORT",
	"BODYCOMP_DB_PATH",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("EMAIL", "athlete@example.com")
	t.Setenv("PASSWORD", "hunter2")
	t.Setenv("GARMINTOKENS", "/var/lib/bodycomp/tokens")
	t.Setenv("SECRET_KEY", "super-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("BODYCOMP_DB_PATH", "/tmp/test.db")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "athlete@example.com", cfg.Email)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "/var/lib/bodycomp/tokens", cfg.TokenStorePath)
	assert.Equal(t, "super-secret", cfg.SecretKey)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, ":9090", cfg.ListenAddr())
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "bodycomp.db", cfg.DBPath)
	assert.Empty(t, cfg.SecretKey)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".garminconnect"), cfg.TokenStorePath)
}

// TestLoad_MissingCredentials verifies that absent EMAIL/PASSWORD do not
// cause an error; submission fails later with an auth error instead.
func TestLoad_MissingCredentials(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Email)
	assert.Empty(t, cfg.Password)
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_HasCredentials(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("EMAIL", "athlete@example.com")
	t.Setenv("PASSWORD", "hunter2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.HasCredentials())
}

func TestLoad_InvalidPort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NonNumericPort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~/.garminconnect", filepath.Join(home, ".garminconnect")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~user/path", "~user/path"},
	}

	for _, tt := range tests {
		got, err := expandHome(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
