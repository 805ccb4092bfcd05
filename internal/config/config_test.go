package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/requestdesk/requestdesk/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	// Missing default-location file falls back to defaults; an explicitly
	// given missing path is an error.
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigRead))
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server_url: https://desk.example.com
refresh_interval: 10s
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://desk.example.com", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval.Std())
	assert.Equal(t, "debug", cfg.LogLevel)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout.Std())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server_url: https://from-file.example.com\n")
	t.Setenv("REQUESTDESK_SERVER_URL", "https://from-env.example.com")
	t.Setenv("REQUESTDESK_REFRESH_INTERVAL", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval.Std())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server_url: [not a scalar\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "empty server url", mutate: func(c *Config) { c.ServerURL = " " }, wantErr: true},
		{name: "bare host", mutate: func(c *Config) { c.ServerURL = "desk.example.com" }, wantErr: true},
		{name: "zero refresh interval", mutate: func(c *Config) { c.RefreshInterval = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = Duration(-time.Second) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := Default()
	want.ServerURL = "https://desk.example.com"
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
