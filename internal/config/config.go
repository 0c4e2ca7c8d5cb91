// Package config loads user-facing configuration from
// ~/.codelink/config.toml. All keys are optional; zero values fall back to
// the defaults below, so a missing file is a fully working setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the TOML config file under the codelink directory.
const ConfigFileName = "config.toml"

// Config represents user configuration in TOML format.
type Config struct {
	// Editor describes the editor family being targeted.
	Editor EditorConfig `toml:"editor"`

	// Probe controls the external signal readers.
	Probe ProbeConfig `toml:"probe"`

	// Cache controls the workspace-index cache.
	Cache CacheConfig `toml:"cache"`

	// Resolver controls the active-workspace fallback chain.
	Resolver ResolverConfig `toml:"resolver"`

	// Search controls file-name and content search.
	Search SearchConfig `toml:"search"`

	// Logs controls the debug log file.
	Logs LogConfig `toml:"logs"`
}

// EditorConfig describes the targeted editor family.
type EditorConfig struct {
	// Products are the window-title suffixes that identify editor windows,
	// e.g. "Visual Studio Code" or "Cursor".
	Products []string `toml:"products"`

	// Binary is the editor CLI used for the status probe.
	Binary string `toml:"binary"`

	// StorageDir overrides the auto-detected workspaceStorage directory.
	StorageDir string `toml:"storage_dir"`
}

// ProbeConfig bounds the external probes.
type ProbeConfig struct {
	// TimeoutSecs is the per-probe subprocess timeout (default: 3).
	TimeoutSecs int `toml:"timeout_secs"`

	// StatusIntervalSecs rate-limits the slow --status probe: at most one
	// spawn per interval (default: 2).
	StatusIntervalSecs int `toml:"status_interval_secs"`
}

// CacheConfig controls the index cache.
type CacheConfig struct {
	// TTLSecs is how long a built index is served without rebuilding
	// (default: 5).
	TTLSecs int `toml:"ttl_secs"`
}

// ResolverConfig controls the fallback chain.
type ResolverConfig struct {
	// Indicators are directory entries that mark a project root when
	// walking up from the caller's directory.
	Indicators []string `toml:"indicators"`

	// FallbackDirs are globbed (relative to $HOME unless absolute) when a
	// status-probe folder name has no storage record to supply its path.
	FallbackDirs []string `toml:"fallback_dirs"`
}

// SearchConfig caps search output.
type SearchConfig struct {
	// MaxResults caps matches returned by find/search operations
	// (default: 100).
	MaxResults int `toml:"max_results"`

	// RipgrepBinary is the external text-search binary (default: "rg").
	RipgrepBinary string `toml:"ripgrep_binary"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	// Enabled turns on file logging (default: false; the CLI is silent
	// unless asked to log).
	Enabled bool `toml:"enabled"`

	// Level is "debug", "info", "warn" or "error" (default: "info").
	Level string `toml:"level"`

	// Format is "json" (default) or "text".
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Products: []string{"Visual Studio Code", "Cursor", "VSCodium", "Code - OSS", "Code"},
			Binary:   "code",
		},
		Probe: ProbeConfig{
			TimeoutSecs:        3,
			StatusIntervalSecs: 2,
		},
		Cache: CacheConfig{
			TTLSecs: 5,
		},
		Resolver: ResolverConfig{
			Indicators: []string{
				".git", ".hg", ".svn",
				"go.mod", "package.json", "Cargo.toml", "pyproject.toml",
				".vscode",
			},
			FallbackDirs: []string{"projects", "code", "dev", "src", "workspace", "repos"},
		},
		Search: SearchConfig{
			MaxResults:    100,
			RipgrepBinary: "rg",
		},
		Logs: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Dir returns the codelink directory (~/.codelink).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".codelink"), nil
}

// Path returns the config file location. CODELINK_CONFIG overrides the
// default, which tests rely on.
func Path() (string, error) {
	if p := os.Getenv("CODELINK_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

var (
	loadOnce   sync.Once
	loadedCfg  *Config
	loadedErr  error
	loadedPath string
)

// Load reads the config file once per process, merging it over Default().
// A missing file is not an error.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		loadedCfg, loadedPath, loadedErr = load()
	})
	return loadedCfg, loadedErr
}

// LoadedPath returns the path Load read from, for diagnostics.
func LoadedPath() string {
	return loadedPath
}

func load() (*Config, string, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, "", nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, path, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return Default(), path, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, path, nil
}

// ParseFile reads a specific config file, bypassing the process-wide cache.
func ParseFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values a user config may have cleared.
func (c *Config) applyDefaults() {
	def := Default()
	if len(c.Editor.Products) == 0 {
		c.Editor.Products = def.Editor.Products
	}
	if c.Editor.Binary == "" {
		c.Editor.Binary = def.Editor.Binary
	}
	if c.Probe.TimeoutSecs <= 0 {
		c.Probe.TimeoutSecs = def.Probe.TimeoutSecs
	}
	if c.Probe.StatusIntervalSecs <= 0 {
		c.Probe.StatusIntervalSecs = def.Probe.StatusIntervalSecs
	}
	if c.Cache.TTLSecs <= 0 {
		c.Cache.TTLSecs = def.Cache.TTLSecs
	}
	if len(c.Resolver.Indicators) == 0 {
		c.Resolver.Indicators = def.Resolver.Indicators
	}
	if len(c.Resolver.FallbackDirs) == 0 {
		c.Resolver.FallbackDirs = def.Resolver.FallbackDirs
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.RipgrepBinary == "" {
		c.Search.RipgrepBinary = def.Search.RipgrepBinary
	}
	if c.Logs.Level == "" {
		c.Logs.Level = def.Logs.Level
	}
	if c.Logs.Format == "" {
		c.Logs.Format = def.Logs.Format
	}
}

// ProbeTimeout returns the per-probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSecs) * time.Second
}

// StatusInterval returns the minimum gap between status probes.
func (c *Config) StatusInterval() time.Duration {
	return time.Duration(c.Probe.StatusIntervalSecs) * time.Second
}

// CacheTTL returns the index cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSecs) * time.Second
}
