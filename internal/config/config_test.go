package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsComplete(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.Editor.Products)
	assert.Equal(t, "code", cfg.Editor.Binary)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL())
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout())
	assert.Contains(t, cfg.Resolver.Indicators, ".git")
	assert.Contains(t, cfg.Resolver.Indicators, ".vscode")
	assert.Equal(t, 100, cfg.Search.MaxResults)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[editor]
products = ["Cursor"]
binary = "cursor"

[cache]
ttl_secs = 10

[probe]
timeout_secs = 1

[search]
max_results = 25
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cursor"}, cfg.Editor.Products)
	assert.Equal(t, "cursor", cfg.Editor.Binary)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL())
	assert.Equal(t, time.Second, cfg.ProbeTimeout())
	assert.Equal(t, 25, cfg.Search.MaxResults)

	// Unset sections keep their defaults.
	assert.Contains(t, cfg.Resolver.Indicators, ".git")
	assert.Equal(t, "rg", cfg.Search.RipgrepBinary)
}

func TestParseFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("editor = [broken"), 0o644))

	_, err := ParseFile(path)
	assert.Error(t, err)
}

func TestPathEnvOverride(t *testing.T) {
	t.Setenv("CODELINK_CONFIG", "/tmp/custom.toml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.toml", p)
}
