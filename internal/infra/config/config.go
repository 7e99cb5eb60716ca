package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Tools   ToolsConfig   `yaml:"tools"`
	History HistoryConfig `yaml:"history"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Transport string `yaml:"transport"` // "stdio" or "http"
	Addr      string `yaml:"addr"`      // listen address for http transport
}

// BrowserConfig holds browser capability settings.
type BrowserConfig struct {
	// RemoteURL is a CDP WebSocket endpoint. Empty launches a local Chrome.
	RemoteURL string `yaml:"remote_url"`
	Headless  bool   `yaml:"headless"`
	// Timeout is the per-action timeout.
	Timeout time.Duration `yaml:"timeout"`
	// NavTimeout bounds page loads; exceeding it stops loading and proceeds.
	NavTimeout time.Duration `yaml:"nav_timeout"`
	// SettleDelay is waited after actions that declare wait_for_network.
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// ToolsConfig holds tool execution settings.
type ToolsConfig struct {
	// RateLimit caps destructive tool invocations per minute. 0 disables.
	RateLimit int `yaml:"rate_limit"`
}

// HistoryConfig holds action-history persistence settings.
type HistoryConfig struct {
	// Path to the sqlite database. Empty keeps history in memory only.
	Path string `yaml:"path"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stderr, stdout, or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "noop"
}

// Default returns the configuration used when no file is present.
// Logging defaults to stderr: the stdio MCP transport owns stdout.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Transport: "stdio", Addr: ":8931"},
		Browser: BrowserConfig{Headless: true, Timeout: 30 * time.Second, NavTimeout: 30 * time.Second, SettleDelay: 500 * time.Millisecond},
		Logger:  LoggerConfig{Level: "info", Format: "text", Output: "stderr"},
		Tracer:  TracerConfig{Enabled: false, Exporter: "noop"},
	}
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from PAGEPILOT_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PAGEPILOT_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("PAGEPILOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PAGEPILOT_REMOTE_URL"); v != "" {
		cfg.Browser.RemoteURL = v
	}
	if v := os.Getenv("PAGEPILOT_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Browser.Headless = b
		}
	}
	if v := os.Getenv("PAGEPILOT_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("PAGEPILOT_LOG_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("PAGEPILOT_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
}
