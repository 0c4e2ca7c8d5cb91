package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Match is one matching line of a content search.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Greper runs content searches over a workspace root.
type Greper struct {
	// Binary is the ripgrep executable (default: "rg").
	Binary string

	// MaxResults caps returned matches (default: DefaultMaxResults).
	MaxResults int
}

// Search returns lines under root matching pattern. ripgrep is invoked
// when present; otherwise the internal scanner produces the same shape.
// Paths in results are workspace-relative.
func (g *Greper) Search(ctx context.Context, root, pattern string) ([]Match, error) {
	max := g.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	binary := g.Binary
	if binary == "" {
		binary = "rg"
	}

	if _, err := exec.LookPath(binary); err == nil {
		matches, err := ripgrep(ctx, binary, root, pattern, max)
		if err == nil {
			return matches, nil
		}
		searchLog.Debug("ripgrep failed, using internal scanner", "error", err)
	}
	return scanGrep(ctx, root, pattern, max)
}

// ripgrep shells out to rg and parses its line-oriented output
// ("path:line:text"). Exit status 1 means no matches, not failure.
func ripgrep(ctx context.Context, binary, root, pattern string, max int) ([]Match, error) {
	cmd := exec.CommandContext(ctx, binary,
		"--line-number", "--no-heading", "--color", "never",
		"--max-count", strconv.Itoa(max),
		"-e", pattern, ".")
	cmd.Dir = root
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("ripgrep: %w", err)
	}
	return parseRipgrepOutput(out.String(), max), nil
}

func parseRipgrepOutput(out string, max int) []Match {
	var matches []Match
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		matches = append(matches, Match{
			Path: filepath.Clean(parts[0]),
			Line: n,
			Text: parts[2],
		})
		if len(matches) >= max {
			break
		}
	}
	return matches
}

// scanGrep is the built-in fallback: walk the tree and regex-match each
// line. Slower than ripgrep but dependency-free.
func scanGrep(ctx context.Context, root, pattern string, max int) ([]Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var matches []Match
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		base := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[base] || strings.HasPrefix(base, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if isBinaryName(base) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		found, scanErr := grepFile(path, rel, re, max-len(matches))
		if scanErr != nil {
			return nil
		}
		matches = append(matches, found...)
		if len(matches) >= max {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func grepFile(path, rel string, re *regexp.Regexp, budget int) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []Match
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if !re.MatchString(line) {
			continue
		}
		matches = append(matches, Match{Path: rel, Line: lineNum, Text: line})
		if len(matches) >= budget {
			break
		}
	}
	return matches, nil
}

// isBinaryName filters obvious binary files by extension; good enough for
// the fallback scanner.
func isBinaryName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".exe", ".dll", ".so", ".dylib", ".bin", ".db", ".sqlite",
		".jpg", ".jpeg", ".png", ".gif", ".ico", ".pdf",
		".zip", ".tar", ".gz", ".zst", ".mp3", ".mp4", ".woff", ".woff2":
		return true
	}
	return false
}
