package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer handles atomic digest file writing using temp → rename.
// Each source file's digest lands at <outputDir>/<relpath>.toon.
type Writer struct {
	outputDir string
	tempDir   string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) (*Writer, error) {
	tempDir := filepath.Join(outputDir, ".tmp")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Clean up stale temp files from a previous interrupted run.
	if err := os.RemoveAll(tempDir); err != nil {
		return nil, fmt.Errorf("failed to clean temp directory: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &Writer{
		outputDir: outputDir,
		tempDir:   tempDir,
	}, nil
}

// Write stores the digest body for one source file atomically.
func (w *Writer) Write(relPath string, body string) error {
	finalPath := w.digestPath(relPath)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return fmt.Errorf("failed to create digest directory: %w", err)
	}

	// Flatten the relative path for the temp file name.
	tempPath := filepath.Join(w.tempDir, strings.ReplaceAll(relPath, "/", "__")+".toon")
	if err := os.WriteFile(tempPath, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Remove deletes the digest file for a source file that no longer
// exists. Removing a missing digest is not an error.
func (w *Writer) Remove(relPath string) error {
	err := os.Remove(w.digestPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove digest: %w", err)
	}
	return nil
}

// digestPath maps a slash-separated relative source path to its digest
// file location.
func (w *Writer) digestPath(relPath string) string {
	return filepath.Join(w.outputDir, filepath.FromSlash(relPath)+".toon")
}
