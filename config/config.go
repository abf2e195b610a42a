package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AutoRefreshEnv overrides auto_refresh.enabled when set to a bool-like value.
const AutoRefreshEnv = "COMPLIANCE_TUI_AUTO_REFRESH"

const (
	DefaultTrendPath       = "/vulnerability/trend/compliance"
	DefaultTrendMethod     = http.MethodPost
	DefaultTimeout         = 30 * time.Second
	DefaultRefreshInterval = 5 * time.Minute
	DefaultLogLevel        = "info"
)

// Config is the top-level configuration.
type Config struct {
	Servers     map[string]ServerConfig `toml:"servers"`
	AutoRefresh AutoRefreshConfig       `toml:"auto_refresh"`
	Log         LogConfig               `toml:"log"`
}

// ServerConfig holds connection details for one compliance backend.
type ServerConfig struct {
	BaseURL            string            `toml:"base_url"`
	Token              string            `toml:"token"`
	InsecureSkipVerify bool              `toml:"insecure_skip_verify"`
	Timeout            Duration          `toml:"timeout"`
	AssetGroups        []string          `toml:"asset_groups"`
	Filters            map[string]string `toml:"filters"`
	Endpoints          EndpointsConfig   `toml:"endpoints"`
}

// EndpointsConfig lists the backend endpoints the dashboard calls.
type EndpointsConfig struct {
	ComplianceTrend EndpointConfig `toml:"compliance_trend"`
}

// EndpointConfig is a path relative to BaseURL plus the HTTP method to use.
type EndpointConfig struct {
	Path   string `toml:"path"`
	Method string `toml:"method"`
}

// AutoRefreshConfig controls periodic re-fetching of the trend.
type AutoRefreshConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// LogConfig controls the log file. The terminal is owned by the UI.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "compliance-tui", "config.toml")
}

// DefaultLogPath returns the default log file path under the XDG state dir.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "compliance-tui", "compliance-tui.log")
}

// LoadFrom reads and parses the config file at the given path.
// It applies defaults and validates every server profile after parsing.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config has no servers defined")
	}
	for name, server := range cfg.Servers {
		if server.BaseURL == "" {
			return nil, fmt.Errorf("server %q: base_url is required", name)
		}
		if len(server.AssetGroups) == 0 {
			return nil, fmt.Errorf("server %q: at least one asset group is required", name)
		}
		server.BaseURL = strings.TrimRight(server.BaseURL, "/")
		if server.Timeout.Duration == 0 {
			server.Timeout.Duration = DefaultTimeout
		}
		ep := &server.Endpoints.ComplianceTrend
		if ep.Path == "" {
			ep.Path = DefaultTrendPath
		}
		if ep.Method == "" {
			ep.Method = DefaultTrendMethod
		}
		ep.Method = strings.ToUpper(ep.Method)
		if ep.Method != http.MethodGet && ep.Method != http.MethodPost {
			return nil, fmt.Errorf("server %q: unsupported compliance_trend method %q", name, ep.Method)
		}
		if server.Filters == nil {
			server.Filters = map[string]string{}
		}
		cfg.Servers[name] = server
	}

	if cfg.AutoRefresh.Interval.Duration <= 0 {
		cfg.AutoRefresh.Interval.Duration = DefaultRefreshInterval
	}
	if v, ok := os.LookupEnv(AutoRefreshEnv); ok {
		cfg.AutoRefresh.Enabled = ParseBoolLike(v)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogPath()
	}
	cfg.Log.File = expandPath(cfg.Log.File)
	return &cfg, nil
}

// ParseBoolLike reports whether v spells a true value ("true", "1", "yes", "on").
// Anything unrecognised is false.
func ParseBoolLike(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v == "yes" || v == "on"
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}

// ServerNames returns the sorted list of server profile names.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TrendURL returns the absolute URL of the compliance trend endpoint.
func (s ServerConfig) TrendURL() string {
	p := s.Endpoints.ComplianceTrend.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return s.BaseURL + p
}
