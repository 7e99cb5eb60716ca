package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, "stderr", cfg.Logger.Output)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  transport: http
  addr: ":9000"
browser:
  headless: false
  nav_timeout: 5s
logger:
  level: debug
history:
  path: /tmp/actions.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "/tmp/actions.db", cfg.History.Path)
	// Unset fields keep defaults.
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PAGEPILOT_TRANSPORT", "http")
	t.Setenv("PAGEPILOT_ADDR", ":7777")
	t.Setenv("PAGEPILOT_HEADLESS", "false")
	t.Setenv("PAGEPILOT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad transport", func(c *Config) { c.Server.Transport = "grpc" }, true},
		{"http needs addr", func(c *Config) { c.Server.Transport = "http"; c.Server.Addr = "" }, true},
		{"bad level", func(c *Config) { c.Logger.Level = "verbose" }, true},
		{"bad exporter", func(c *Config) { c.Tracer.Exporter = "jaeger" }, true},
		{"negative timeout", func(c *Config) { c.Browser.Timeout = -time.Second }, true},
		{"negative rate limit", func(c *Config) { c.Tools.RateLimit = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
