// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/museqc/internal/ports/secondary"
)

// Files implements secondary.LocalFiles with plain os calls.
type Files struct{}

var _ secondary.LocalFiles = Files{}

// NewFiles creates the local file adapter.
func NewFiles() Files {
	return Files{}
}

// Exists reports whether a file exists at path.
func (Files) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory and its parents if missing.
func (Files) EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// Move relocates a file, creating the destination directory as needed.
// os.Rename cannot cross filesystems, so fall back to copy and delete.
func (f Files) Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return nil
}

// Remove deletes a file. Removing a missing file is not an error.
func (Files) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
