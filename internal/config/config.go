// Package config handles TOML configuration loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/farmview-proxy/config.toml",
	"configs/config.toml",
}

// reservedPrefixes are route prefixes owned by the gateway itself.
var reservedPrefixes = []string{"/api", "/healthz", "/proxy/status"}

// DefaultUserAgent is sent to Farm Core when farmcore.user_agent is unset.
const DefaultUserAgent = "Farm-Dashboard/1.0"

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Config      string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host        string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port        int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	FarmCoreURL string `kong:"name='farm-core-url',help='Farm Core base URL (overrides config).',env='FARM_CORE_API_URL'"`
	LogLevel    string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	FarmCore FarmCoreConfig `toml:"farmcore"`
	Timeouts TimeoutsConfig `toml:"timeouts"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`

	filePath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means 8080
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// FarmCoreConfig describes the backend the gateway forwards to.
type FarmCoreConfig struct {
	BaseURL         string `toml:"base_url"`
	IdleConnections int    `toml:"idle_connections"`
	UserAgent       string `toml:"user_agent"`
}

// TimeoutsConfig holds per-class request budgets in milliseconds.
type TimeoutsConfig struct {
	DefaultMS    int `toml:"default_ms"`
	PowerMS      int `toml:"power_ms"`
	MigrationsMS int `toml:"migrations_ms"`
}

// Default returns the budget for ordinary routes.
func (t TimeoutsConfig) Default() time.Duration {
	return time.Duration(t.DefaultMS) * time.Millisecond
}

// Power returns the budget for power actions and status.
func (t TimeoutsConfig) Power() time.Duration {
	return time.Duration(t.PowerMS) * time.Millisecond
}

// Migrations returns the budget for migration runs.
func (t TimeoutsConfig) Migrations() time.Duration {
	return time.Duration(t.MigrationsMS) * time.Millisecond
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Load reads the TOML config file and applies CLI overrides.
// When no explicit path is given (via --config or CONFIG_PATH), it searches
// /etc/farmview-proxy/config.toml then configs/config.toml.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return nil, fmt.Errorf("config: no config file found (searched %v)", configSearchPaths)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.filePath = path
	cfg.applyCLI(cli)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.FarmCoreURL != "" {
		c.FarmCore.BaseURL = cli.FarmCoreURL
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
}

func (c *Config) validate() error {
	if c.FarmCore.BaseURL == "" {
		return fmt.Errorf("farmcore.base_url is required (or set FARM_CORE_API_URL)")
	}
	u, err := url.Parse(c.FarmCore.BaseURL)
	if err != nil {
		return fmt.Errorf("farmcore.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("farmcore.base_url must use http or https; got %q", c.FarmCore.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("farmcore.base_url has no host; got %q", c.FarmCore.BaseURL)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0-65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.FarmCore.IdleConnections < 0 {
		return fmt.Errorf("farmcore.idle_connections must be non-negative; got %d", c.FarmCore.IdleConnections)
	}
	for name, v := range map[string]int{
		"timeouts.default_ms":    c.Timeouts.DefaultMS,
		"timeouts.power_ms":      c.Timeouts.PowerMS,
		"timeouts.migrations_ms": c.Timeouts.MigrationsMS,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative; got %d", name, v)
		}
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", c.Server.RateLimit.RequestsPerSecond)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Path != "" {
		p := c.Metrics.Path
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range reservedPrefixes {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}

	return nil
}

// setDefaults fills zero-valued fields. TOML cannot tell an explicit 0 from
// an omitted key, so zero always means "use the default".
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 10 * 1024 * 1024
	}
	c.FarmCore.BaseURL = strings.TrimRight(c.FarmCore.BaseURL, "/")
	if c.FarmCore.IdleConnections == 0 {
		c.FarmCore.IdleConnections = 100
	}
	if c.FarmCore.UserAgent == "" {
		c.FarmCore.UserAgent = DefaultUserAgent
	}
	if c.Timeouts.DefaultMS == 0 {
		c.Timeouts.DefaultMS = 15000
	}
	if c.Timeouts.PowerMS == 0 {
		c.Timeouts.PowerMS = 30000
	}
	if c.Timeouts.MigrationsMS == 0 {
		c.Timeouts.MigrationsMS = 120000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
