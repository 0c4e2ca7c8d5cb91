package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/codelink-sh/codelink/internal/config"
	"github.com/codelink-sh/codelink/internal/platform"
)

// FromConfig wires a production engine: real probes, the platform's editor
// storage tree, and the configured fallback chain.
func FromConfig(cfg *config.Config) *Engine {
	home, _ := os.UserHomeDir()

	var storeDirs []string
	if cfg.Editor.StorageDir != "" {
		storeDirs = []string{cfg.Editor.StorageDir}
	} else {
		storeDirs = platform.EditorStorageDirs(home)
	}
	store := &Store{Dirs: storeDirs}

	prober := NewProber(cfg.ProbeTimeout(), cfg.StatusInterval(), cfg.Editor.Binary)
	builder := &Builder{
		Signals:      prober,
		Store:        store,
		Products:     cfg.Editor.Products,
		FallbackDirs: expandFallbackDirs(cfg.Resolver.FallbackDirs, home),
	}

	return NewEngine(EngineOptions{
		TTL:        cfg.CacheTTL(),
		Build:      builder.Build,
		Recent:     store.Recent,
		Indicators: cfg.Resolver.Indicators,
		Home:       home,
		StorageDir: store.Dir(),
	})
}

// expandFallbackDirs resolves configured fallback directories against the
// home directory. Absolute entries pass through; "~/" prefixes and bare
// names are joined under home.
func expandFallbackDirs(dirs []string, home string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.IsAbs(d) {
			out = append(out, d)
			continue
		}
		out = append(out, filepath.Join(home, strings.TrimPrefix(d, "~/")))
	}
	return out
}
