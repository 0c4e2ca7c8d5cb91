// Package workspace locates the editor workspaces open on this machine and
// decides which one a terminal invocation should target. Detection layers
// three imperfect signals (window titles, the editor's --status dump, and
// the on-disk recent-workspace storage); none is authoritative alone, so
// every reader degrades to "no data" and the resolver falls through an
// ordered strategy chain.
package workspace

import (
	"fmt"
	"strings"
)

// Candidate is a possibly-open workspace discovered from one of the
// external signals. Name is a short display label (last path segment or a
// window-title fragment), Path the absolute workspace root. Paths are
// verified to exist at the time a candidate is accepted into an index.
type Candidate struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Index is an ordered list of candidates, deduplicated by path. Order
// reflects the preference of the signal that produced each entry: fast
// window-title correlation first, slow status-dump fallback after.
type Index []Candidate

// Names returns the display names in index order.
func (ix Index) Names() []string {
	names := make([]string, len(ix))
	for i, c := range ix {
		names[i] = c.Name
	}
	return names
}

// Method identifies which strategy produced an active-workspace selection.
// The public contract is the path; the method is kept for diagnostics.
type Method string

const (
	// MethodIndex means the selection came from the open-workspace index,
	// either because the caller's cwd sits inside a candidate or because
	// the first candidate was taken.
	MethodIndex Method = "index"
	// MethodIndicator means a project indicator (.git, go.mod, ...) was
	// found walking up from the caller's cwd.
	MethodIndicator Method = "indicator"
	// MethodRecent means the editor's recent-workspace storage supplied
	// a still-existing folder.
	MethodRecent Method = "recent"
	// MethodCwd is the terminal fallback: the caller's cwd unchanged.
	MethodCwd Method = "cwd"
)

// Selection is the answer to "what is the active workspace".
type Selection struct {
	Path   string `json:"path"`
	Method Method `json:"method"`
}

// NotFoundError is returned by FindByName when no candidate matches. It
// carries the names that were available so callers can present
// alternatives.
type NotFoundError struct {
	Query     string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no open workspace matches %q (no workspaces detected)", e.Query)
	}
	return fmt.Sprintf("no open workspace matches %q (open: %s)", e.Query, strings.Join(e.Available, ", "))
}

// nameMatches reports whether two workspace names refer to the same
// workspace under the bidirectional case-insensitive substring policy.
// Window titles and stored folder paths are not guaranteed to share an
// exact string, only a recognizable fragment, so exact matching would drop
// valid open workspaces. The flip side is a known accuracy limitation:
// a short name like "app" also matches "webapp".
func nameMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
