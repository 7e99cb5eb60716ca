package config

import "fmt"

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport: unknown transport %q", c.Server.Transport)
	}
	if c.Server.Transport == "http" && c.Server.Addr == "" {
		return fmt.Errorf("server.addr: required for http transport")
	}

	switch c.Logger.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logger.level: unknown level %q", c.Logger.Level)
	}
	switch c.Logger.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logger.format: unknown format %q", c.Logger.Format)
	}

	switch c.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		return fmt.Errorf("tracer.exporter: unknown exporter %q", c.Tracer.Exporter)
	}

	if c.Browser.Timeout < 0 || c.Browser.NavTimeout < 0 || c.Browser.SettleDelay < 0 {
		return fmt.Errorf("browser: timeouts must not be negative")
	}
	if c.Tools.RateLimit < 0 {
		return fmt.Errorf("tools.rate_limit: must not be negative")
	}
	return nil
}
