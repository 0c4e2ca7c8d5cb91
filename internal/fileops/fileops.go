// Package fileops implements the plain file-system operations exposed to
// the agent surface: create a file, write a file, check existence. These
// are stateless wrappers with no invariants of their own.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
)

// Create writes a new file, creating parent directories as needed. It
// fails if the file already exists.
func Create(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Write writes a file, creating it (and parent directories) if missing and
// replacing its content otherwise.
func Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists, and whether it is a directory.
func Exists(path string) (exists, isDir bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}
