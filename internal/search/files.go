// Package search implements file-name and content search over a workspace.
// Content search shells out to ripgrep when available and falls back to a
// built-in line scanner with the same output shape.
package search

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/codelink-sh/codelink/internal/logging"
)

var searchLog = logging.ForComponent(logging.CompSearch)

// DefaultMaxResults caps results when the caller passes no limit.
const DefaultMaxResults = 100

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

// FindFiles returns workspace-relative paths of files under root whose
// base name matches pattern. Pattern is a glob ("*.go"); a pattern without
// glob metacharacters matches as a case-insensitive substring, which is
// what interactive callers usually mean. Results are capped at max.
func FindFiles(root, pattern string, max int) ([]string, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}
	literal := !strings.ContainsAny(pattern, "*?[")
	lowerPattern := strings.ToLower(pattern)

	var results []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		base := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[base] || strings.HasPrefix(base, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		var ok bool
		if literal {
			ok = strings.Contains(strings.ToLower(base), lowerPattern)
		} else {
			ok, _ = filepath.Match(pattern, base)
		}
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		results = append(results, rel)
		if len(results) >= max {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
