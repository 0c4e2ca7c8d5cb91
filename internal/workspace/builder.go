package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/codelink-sh/codelink/internal/logging"
)

var engineLog = logging.ForComponent(logging.CompEngine)

// SignalSource supplies the two subprocess-backed signals.
type SignalSource interface {
	WindowTitles(ctx context.Context) []string
	StatusText(ctx context.Context) string
}

// RecentSource supplies the recent-workspace storage records,
// most recent first.
type RecentSource interface {
	Recent() []Candidate
}

// Builder reconciles the external signals into an index of currently open
// workspaces. Build never fails: internal failures degrade to a partial or
// empty index.
type Builder struct {
	Signals  SignalSource
	Store    RecentSource
	Products []string

	// FallbackDirs are directories scanned when a status-probe folder name
	// has no storage record to supply its path.
	FallbackDirs []string

	// Exists is the path-existence check, swapped out in tests.
	// Nil means os.Stat.
	Exists func(path string) bool
}

// Build returns the deduplicated open-workspace index.
//
// Fast path: window titles are the cheapest signal carrying workspace
// labels, and the storage records carry the paths; a displayed name is
// correlated to a record by bidirectional case-insensitive substring match
// (titles and stored paths share only a recognizable fragment, never a
// guaranteed exact string). Slow path, taken only when no titles are
// available: the --status dump yields folder names, resolved to paths via
// exact trailing-segment match against storage and then via the fallback
// directory scan. Candidate paths are re-verified on disk every build.
func (b *Builder) Build(ctx context.Context) Index {
	exists := b.Exists
	if exists == nil {
		exists = pathExists
	}

	var out Index

	titles := b.Signals.WindowTitles(ctx)
	var displayed []string
	for _, t := range titles {
		if name, ok := ParseWindowTitle(t, b.Products); ok {
			displayed = append(displayed, name)
		}
	}

	if len(displayed) > 0 {
		records := b.Store.Recent()
		for _, name := range displayed {
			for _, rec := range records {
				if nameMatches(name, rec.Name) && exists(rec.Path) {
					out = append(out, rec)
					break
				}
			}
		}
		engineLog.Debug("index built from window titles",
			"windows", len(displayed), "candidates", len(out))
		return dedupByPath(out)
	}

	// Slow path: no window enumeration available or no editor windows on
	// screen. The status dump only carries names, so each needs a path
	// resolution step.
	names := ParseStatusFolders(b.Signals.StatusText(ctx))
	if len(names) == 0 {
		return nil
	}
	records := b.Store.Recent()
	for _, name := range names {
		if path, ok := b.resolveFolderPath(name, records, exists); ok {
			out = append(out, Candidate{Name: name, Path: path})
		}
	}
	engineLog.Debug("index built from status dump",
		"folders", len(names), "candidates", len(out))
	return dedupByPath(out)
}

// resolveFolderPath finds the path for a status-dump folder name: first an
// exact match on the trailing path segment of a storage record, then a
// scan of the common project directories.
func (b *Builder) resolveFolderPath(name string, records []Candidate, exists func(string) bool) (string, bool) {
	for _, rec := range records {
		if filepath.Base(rec.Path) == name && exists(rec.Path) {
			return rec.Path, true
		}
	}
	for _, dir := range b.FallbackDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() && strings.EqualFold(e.Name(), name) {
				return filepath.Join(dir, e.Name()), true
			}
		}
	}
	return "", false
}

// dedupByPath drops later candidates sharing a path with an earlier one.
// Dedup is by path, never by name: two different paths can share a leaf
// name.
func dedupByPath(in Index) Index {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make(Index, 0, len(in))
	for _, c := range in {
		if seen[c.Path] {
			continue
		}
		seen[c.Path] = true
		out = append(out, c)
	}
	return out
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
