package workspace

import (
	"regexp"
	"strings"
)

// statusSectionMarker starts the workspace section of the editor's --status
// dump. The dump is free-form diagnostic text; only folder lines after this
// marker are meaningful.
const statusSectionMarker = "Workspace Stats"

// statusFolderRe matches the per-folder lines of the workspace section,
// e.g. "|  Folder (deb-helper): 2 files". Leading pipes and indentation
// vary between editor versions, so only the core shape is anchored.
var statusFolderRe = regexp.MustCompile(`Folder \(([^)]+)\):\s*\d+\s+files`)

// ParseStatusFolders extracts workspace folder names from raw --status
// output. Lines before the workspace section marker are ignored, as are
// lines after it that do not match the folder pattern. The dump carries
// names only, never paths; path resolution is the index builder's job.
func ParseStatusFolders(text string) []string {
	var names []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		if !inSection {
			if strings.Contains(line, statusSectionMarker) {
				inSection = true
			}
			continue
		}
		m := statusFolderRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
