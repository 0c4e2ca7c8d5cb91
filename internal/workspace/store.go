package workspace

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codelink-sh/codelink/internal/logging"
)

var storeLog = logging.ForComponent(logging.CompStore)

// folderURIPrefix is the scheme the editor uses for local workspace
// folders in its storage records. Records with remote schemes
// (vscode-remote://, vscode-vfs://) are not local paths and are skipped.
const folderURIPrefix = "file://"

// defaultRecordLimit caps how many storage records a single scan decodes.
// The storage tree accumulates one directory per workspace ever opened;
// only the newest few matter for correlation.
const defaultRecordLimit = 30

// Store reads the editor's recent-workspace storage: one small JSON record
// per workspace, at <dir>/<hash>/workspace.json.
type Store struct {
	// Dirs are candidate storage roots; the first that exists is scanned.
	Dirs []string

	// Limit caps decoded records (default: defaultRecordLimit).
	Limit int
}

type storageRecord struct {
	Folder string `json:"folder"`
}

// Dir returns the storage root the scan will use, or "" when none exists.
func (s *Store) Dir() string {
	for _, dir := range s.Dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// Recent returns the stored workspace records, most recently modified
// first. Malformed or unreadable records are skipped individually; one bad
// record never aborts the scan. A missing storage tree yields nil.
func (s *Store) Recent() []Candidate {
	dir := s.Dir()
	if dir == "" {
		return nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*", "workspace.json"))
	if err != nil || len(paths) == 0 {
		return nil
	}

	type entry struct {
		path    string
		modTime int64
	}
	entries := make([]entry, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: p, modTime: info.ModTime().UnixNano()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime > entries[j].modTime
	})

	limit := s.Limit
	if limit <= 0 {
		limit = defaultRecordLimit
	}

	var out []Candidate
	for _, e := range entries {
		if len(out) >= limit {
			break
		}
		data, err := os.ReadFile(e.path)
		if err != nil {
			continue
		}
		cand, ok := ParseStorageRecord(data)
		if !ok {
			storeLog.Debug("skipping storage record", "path", e.path)
			continue
		}
		out = append(out, cand)
	}
	return out
}

// ParseStorageRecord decodes one workspace.json record. The record is
// accepted only when its "folder" field is a file:// URI; the candidate
// path is the decoded URI path and the display name its last segment.
func ParseStorageRecord(data []byte) (Candidate, bool) {
	var rec storageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Candidate{}, false
	}
	return parseFolderURI(rec.Folder)
}

func parseFolderURI(folder string) (Candidate, bool) {
	if !strings.HasPrefix(folder, folderURIPrefix) {
		return Candidate{}, false
	}
	// url.Parse handles percent-encoded segments ("My%20Project").
	path := strings.TrimPrefix(folder, folderURIPrefix)
	if u, err := url.Parse(folder); err == nil && u.Path != "" {
		path = u.Path
	}
	if !strings.HasPrefix(path, "/") {
		return Candidate{}, false
	}
	path = filepath.Clean(path)
	if path == "/" {
		return Candidate{}, false
	}
	return Candidate{Name: filepath.Base(path), Path: path}, true
}
