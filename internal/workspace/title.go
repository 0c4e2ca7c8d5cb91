package workspace

import "strings"

// titleSeparator joins the fragments of an editor window title:
// "main.go - myproject - Visual Studio Code".
const titleSeparator = " - "

// ParseWindowTitle extracts a workspace name from an editor window title.
//
// Titles have the shape "<fragment> - <fragment> - ... - <product>", where
// the trailing fragment is one of the known product names. The workspace
// name is the fragment directly before the product name (when a file is
// focused the title is "file - workspace - product"; with nothing focused
// it is "workspace - product"). Titles that do not end in a known product,
// or that consist of the product name alone, yield no match.
//
// Window titles are the only fast signal carrying a human-readable
// workspace label, but they never carry a full path; correlation against
// the recent-workspace storage happens in the index builder.
func ParseWindowTitle(title string, products []string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}

	rest := ""
	matched := false
	for _, product := range products {
		if product == "" {
			continue
		}
		if title == product {
			// Product alone: zero fragments remain.
			return "", false
		}
		if strings.HasSuffix(title, titleSeparator+product) {
			rest = strings.TrimSuffix(title, titleSeparator+product)
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	fragments := splitTitleFragments(rest)
	if len(fragments) == 0 {
		return "", false
	}
	// Last remaining fragment, i.e. the one right before the product name.
	return fragments[len(fragments)-1], true
}

// splitTitleFragments splits on the title separator and drops empty and
// decoration-only fragments. The dirty-file dot the editor prepends to the
// first fragment ("● main.go - ...") is stripped.
func splitTitleFragments(s string) []string {
	parts := strings.Split(s, titleSeparator)
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "●"))
		if p != "" {
			fragments = append(fragments, p)
		}
	}
	return fragments
}
