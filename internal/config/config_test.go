package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const minimalConfig = `
[farmcore]
base_url = "http://farm-core:8000"
`

// writeConfig writes data to a temp config.toml and returns a CLI pointing at it.
func writeConfig(t *testing.T, data string) *CLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return &CLI{Config: path}
}

func TestLoad_ValidConfig(t *testing.T) {
	cli := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9000
body_max_bytes = 5242880

[farmcore]
base_url = "https://farm-core.internal/"
idle_connections = 50
user_agent = "farmview-test"

[timeouts]
default_ms = 5000
power_ms = 45000

[log]
level = "debug"
format = "text"
`)

	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}
	if cfg.FarmCore.BaseURL != "https://farm-core.internal" {
		t.Errorf("FarmCore.BaseURL = %q, want trailing slash trimmed", cfg.FarmCore.BaseURL)
	}
	if cfg.FarmCore.IdleConnections != 50 {
		t.Errorf("FarmCore.IdleConnections = %d, want 50", cfg.FarmCore.IdleConnections)
	}
	if cfg.FarmCore.UserAgent != "farmview-test" {
		t.Errorf("FarmCore.UserAgent = %q, want %q", cfg.FarmCore.UserAgent, "farmview-test")
	}
	if got := cfg.Timeouts.Default(); got != 5*time.Second {
		t.Errorf("Timeouts.Default() = %v, want 5s", got)
	}
	if got := cfg.Timeouts.Power(); got != 45*time.Second {
		t.Errorf("Timeouts.Power() = %v, want 45s", got)
	}
	if got := cfg.Timeouts.Migrations(); got != 2*time.Minute {
		t.Errorf("Timeouts.Migrations() = %v, want default 2m", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.BodyMaxBytes != 10*1024*1024 {
		t.Errorf("default Server.BodyMaxBytes = %d, want %d", cfg.Server.BodyMaxBytes, 10*1024*1024)
	}
	if cfg.FarmCore.UserAgent != DefaultUserAgent {
		t.Errorf("default FarmCore.UserAgent = %q, want %q", cfg.FarmCore.UserAgent, DefaultUserAgent)
	}
	if cfg.FarmCore.IdleConnections != 100 {
		t.Errorf("default FarmCore.IdleConnections = %d, want 100", cfg.FarmCore.IdleConnections)
	}
	if cfg.Timeouts.DefaultMS != 15000 || cfg.Timeouts.PowerMS != 30000 || cfg.Timeouts.MigrationsMS != 120000 {
		t.Errorf("default Timeouts = %+v", cfg.Timeouts)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("default Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default Metrics.Path = %q, want %q", cfg.Metrics.Path, "/metrics")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(&CLI{Config: "/nonexistent/config.toml"})
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	_, err := Load(writeConfig(t, "[server]\nport = 8080\n"))
	if err == nil {
		t.Fatal("Load() expected error for missing farmcore.base_url, got nil")
	}
	if !strings.Contains(err.Error(), "farmcore.base_url") {
		t.Errorf("error = %q, want mention of farmcore.base_url", err)
	}
}

func TestLoad_BaseURLFromCLI(t *testing.T) {
	cli := writeConfig(t, "[server]\nport = 8080\n")
	cli.FarmCoreURL = "http://localhost:8000"

	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FarmCore.BaseURL != "http://localhost:8000" {
		t.Errorf("FarmCore.BaseURL = %q, want CLI value", cfg.FarmCore.BaseURL)
	}
}

func TestLoad_BadBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"ftp scheme", "ftp://farm-core"},
		{"no scheme", "farm-core:8000"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "[farmcore]\nbase_url = \""+tt.url+"\"\n"))
			if err == nil {
				t.Fatalf("Load() expected error for base_url %q, got nil", tt.url)
			}
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"\n[log]\nlevel = \"verbose\"\n"))
	if err == nil {
		t.Fatal("Load() expected error for invalid log level, got nil")
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"\n[log]\nformat = \"xml\"\n"))
	if err == nil {
		t.Fatal("Load() expected error for invalid log format, got nil")
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	cli := writeConfig(t, `
[server]
host = "0.0.0.0"
port = 8080

[farmcore]
base_url = "http://toml-core:8000"

[log]
level = "info"
`)
	cli.Host = "127.0.0.1"
	cli.Port = 3000
	cli.FarmCoreURL = "http://cli-core:8000"
	cli.LogLevel = "debug"

	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q (CLI override)", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d (CLI override)", cfg.Server.Port, 3000)
	}
	if cfg.FarmCore.BaseURL != "http://cli-core:8000" {
		t.Errorf("FarmCore.BaseURL = %q, want %q (CLI override)", cfg.FarmCore.BaseURL, "http://cli-core:8000")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q (CLI override)", cfg.Log.Level, "debug")
	}
}

func TestLoad_NegativeValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"port", "[server]\nport = -1\n"},
		{"body_max_bytes", "[server]\nbody_max_bytes = -1\n"},
		{"idle_connections", "[farmcore]\nidle_connections = -1\n"},
		{"default_ms", "[timeouts]\ndefault_ms = -5\n"},
		{"power_ms", "[timeouts]\npower_ms = -5\n"},
		{"migrations_ms", "[timeouts]\nmigrations_ms = -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if !strings.Contains(data, "[farmcore]") {
				data = minimalConfig + data
			} else {
				data = strings.Replace(data, "[farmcore]\n", "[farmcore]\nbase_url = \"http://farm-core\"\n", 1)
			}
			_, err := Load(writeConfig(t, data))
			if err == nil {
				t.Fatalf("Load() expected error for negative %s, got nil", tt.name)
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("error = %q, want mention of %s", err, tt.name)
			}
		})
	}
}

func TestLoad_RateLimitConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[server.rate_limit]
enabled = true
requests_per_second = 50.0
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Server.RateLimit.Enabled {
		t.Error("expected RateLimit.Enabled = true")
	}
	if cfg.Server.RateLimit.RequestsPerSecond != 50.0 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 50.0", cfg.Server.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_RateLimitConfig_BadValue(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
[server.rate_limit]
enabled = true
requests_per_second = 0
`))
	if err == nil {
		t.Fatal("Load() expected error for rate limit enabled with requests_per_second=0, got nil")
	}
	if !strings.Contains(err.Error(), "requests_per_second") {
		t.Errorf("error = %q, want mention of requests_per_second", err)
	}
}

func TestLoad_MetricsPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"custom", "/custom-metrics", ""},
		{"prefix lookalike", "/apimetrics", ""},
		{"no leading slash", "metrics", "metrics.path"},
		{"api exact", "/api", "conflicts"},
		{"api sub", "/api/metrics", "conflicts"},
		{"healthz", "/healthz", "conflicts"},
		{"proxy status", "/proxy/status", "conflicts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, minimalConfig+"\n[metrics]\nenabled = true\npath = \""+tt.path+"\"\n"))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if cfg.Metrics.Path != tt.path {
					t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, tt.path)
				}
				return
			}
			if err == nil {
				t.Fatalf("Load() expected error for metrics.path=%q, got nil", tt.path)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MetricsDisabledSkipsPathValidation(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"\n[metrics]\nenabled = false\npath = \"bad-no-slash\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v; disabled metrics should skip path validation", err)
	}
}

func TestWarnPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on Windows")
	}

	tests := []struct {
		name     string
		mode     os.FileMode
		wantWarn bool
	}{
		{"loose", 0o644, true},
		{"strict", 0o600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("# test"), tt.mode); err != nil {
				t.Fatal(err)
			}

			cfg := &Config{filePath: path}
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
			cfg.WarnPermissions(logger)

			got := strings.Contains(buf.String(), "readable by group/others")
			if got != tt.wantWarn {
				t.Errorf("warned = %v, want %v (log: %q)", got, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestFindConfigInPaths(t *testing.T) {
	path1 := filepath.Join(t.TempDir(), "config.toml")
	path2 := filepath.Join(t.TempDir(), "config.toml")
	for _, p := range []string{path1, path2} {
		if err := os.WriteFile(p, []byte(minimalConfig), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := findConfigInPaths([]string{"/nonexistent/a.toml", path2, path1}); got != path2 {
		t.Errorf("findConfigInPaths() = %q, want first existing %q", got, path2)
	}
	if got := findConfigInPaths([]string{"/nonexistent/a.toml", "/nonexistent/b.toml"}); got != "" {
		t.Errorf("findConfigInPaths() = %q, want empty", got)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	sc := &ServerConfig{Host: "127.0.0.1", Port: 3000}
	want := "127.0.0.1:3000"
	if got := sc.Addr(); got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(&CLI{Config: "../../configs/config.example.toml"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FarmCore.BaseURL != "http://farm-core:8000" {
		t.Errorf("FarmCore.BaseURL = %q", cfg.FarmCore.BaseURL)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v, want enabled at /metrics", cfg.Metrics)
	}
	if got := cfg.Timeouts.Migrations(); got != 2*time.Minute {
		t.Errorf("Timeouts.Migrations() = %s, want 2m", got)
	}
}
