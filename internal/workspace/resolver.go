package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// recentFallbackLimit is how many storage records the recent-store fallback
// strategy considers.
const recentFallbackLimit = 3

// Engine is the workspace resolution engine: it builds (and caches) the
// open-workspace index and selects the active workspace for a caller.
type Engine struct {
	cache      *Cache
	recent     func() []Candidate
	indicators []string
	home       string
	storageDir string
}

// EngineOptions configures an Engine. Build and Recent are required; the
// rest default sensibly.
type EngineOptions struct {
	// TTL is the index cache lifetime (default: DefaultTTL).
	TTL time.Duration

	// Clock is the cache clock, injectable for tests (default: time.Now).
	Clock func() time.Time

	// Build produces a fresh open-workspace index.
	Build func(ctx context.Context) Index

	// Recent reads the recent-workspace storage, most recent first.
	Recent func() []Candidate

	// Indicators mark a project root during the walk-up fallback.
	Indicators []string

	// Home is the user's home directory, used for the editor-settings
	// exception during the walk-up.
	Home string

	// StorageDir is the storage root in use, exposed for diagnostics and
	// the serve-mode watcher.
	StorageDir string
}

// NewEngine creates an engine from explicit options.
func NewEngine(opts EngineOptions) *Engine {
	recent := opts.Recent
	if recent == nil {
		recent = func() []Candidate { return nil }
	}
	if opts.Home == "" {
		opts.Home, _ = os.UserHomeDir()
	}
	return &Engine{
		cache:      NewCache(opts.TTL, opts.Clock, opts.Build),
		recent:     recent,
		indicators: opts.Indicators,
		home:       opts.Home,
		storageDir: opts.StorageDir,
	}
}

// ListOpen returns the open-workspace index. It never fails; with every
// signal unavailable the index is empty.
func (e *Engine) ListOpen(ctx context.Context) Index {
	return e.cache.Get(ctx)
}

// InvalidateIndex drops the cached index so the next call rebuilds.
func (e *Engine) InvalidateIndex() {
	e.cache.Invalidate()
}

// StorageDir returns the recent-workspace storage root in use, or "".
func (e *Engine) StorageDir() string {
	return e.storageDir
}

// ResolveActive picks the single workspace path relevant to a caller
// working in cwd. It always returns a path; the absolute fallback is cwd
// itself.
//
// The strategy order encodes a confidence hierarchy: the caller already
// being inside a known open workspace beats any other signal; an open
// workspace beats guessing from directory structure; directory structure
// beats the editor's memory of recent folders; and with no signal at all
// the caller's own directory is the only honest answer.
func (e *Engine) ResolveActive(ctx context.Context, cwd string) Selection {
	cwd = filepath.Clean(cwd)
	index := e.cache.Get(ctx)

	for _, s := range e.strategies() {
		if path, ok := s.pick(index, cwd); ok {
			engineLog.Debug("active workspace resolved", "path", path, "method", s.method)
			return Selection{Path: path, Method: s.method}
		}
	}
	return Selection{Path: cwd, Method: MethodCwd}
}

// FindByName returns the first open workspace whose name matches partial
// under the bidirectional case-insensitive substring policy. On no match
// the returned error is a *NotFoundError carrying the available names.
func (e *Engine) FindByName(ctx context.Context, partial string) (Candidate, error) {
	index := e.cache.Get(ctx)
	for _, c := range index {
		if nameMatches(partial, c.Name) {
			return c, nil
		}
	}
	return Candidate{}, &NotFoundError{Query: partial, Available: index.Names()}
}

// strategy is one step of the fallback chain: it inspects the index and
// the caller's cwd and either produces a path or passes.
type strategy struct {
	method Method
	pick   func(index Index, cwd string) (string, bool)
}

func (e *Engine) strategies() []strategy {
	return []strategy{
		{MethodIndex, insideOpenWorkspace},
		{MethodIndex, firstOpenWorkspace},
		{MethodIndicator, e.projectRootAbove},
		{MethodRecent, e.recentWorkspace},
	}
}

// insideOpenWorkspace matches when a candidate's path is a prefix of the
// caller's cwd: the caller is working inside an already-open workspace,
// the highest-confidence signal there is.
func insideOpenWorkspace(index Index, cwd string) (string, bool) {
	for _, c := range index {
		if isPathPrefix(c.Path, cwd) {
			return c.Path, true
		}
	}
	return "", false
}

// firstOpenWorkspace takes the first candidate; index order already
// reflects signal preference.
func firstOpenWorkspace(index Index, _ string) (string, bool) {
	if len(index) > 0 {
		return index[0].Path, true
	}
	return "", false
}

// projectRootAbove walks cwd upward toward the filesystem root and returns
// the first directory containing a project indicator.
func (e *Engine) projectRootAbove(_ Index, cwd string) (string, bool) {
	dir := cwd
	for {
		for _, ind := range e.indicators {
			if e.indicatorPresent(dir, ind) {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// indicatorPresent checks one indicator entry in dir. A bare .vscode
// folder in the home directory is not a project indicator: many tools drop
// one there. It only counts when it holds a non-empty settings file.
func (e *Engine) indicatorPresent(dir, indicator string) bool {
	full := filepath.Join(dir, indicator)
	if _, err := os.Stat(full); err != nil {
		return false
	}
	if indicator == ".vscode" && dir == e.home {
		info, err := os.Stat(filepath.Join(full, "settings.json"))
		return err == nil && info.Size() > 0
	}
	return true
}

// recentWorkspace returns the newest stored workspace whose path still
// exists, looking at the few most recent records only.
func (e *Engine) recentWorkspace(_ Index, _ string) (string, bool) {
	records := e.recent()
	if len(records) > recentFallbackLimit {
		records = records[:recentFallbackLimit]
	}
	for _, rec := range records {
		if pathExists(rec.Path) {
			return rec.Path, true
		}
	}
	return "", false
}

// isPathPrefix reports whether base equals dir or is an ancestor of it,
// respecting path-segment boundaries ("/home/u/proj" is not a prefix of
// "/home/u/project2").
func isPathPrefix(base, dir string) bool {
	base = filepath.Clean(base)
	dir = filepath.Clean(dir)
	if base == dir {
		return true
	}
	return strings.HasPrefix(dir, base+string(filepath.Separator))
}
