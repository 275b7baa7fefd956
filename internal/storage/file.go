package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File persists the blob as a single file on disk.
//
// Writes go through a temp file followed by a rename so a crash mid-write
// never leaves a truncated collection behind. A missing file reads as empty.
type File struct {
	path string
}

// NewFile creates a File backend at the given path, creating parent
// directories as needed.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{path: path}, nil
}

// Load reads the blob; a missing file is an empty blob, not an error.
func (f *File) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read storage file: %w", err)
	}
	return string(data), nil
}

// Save atomically replaces the blob.
func (f *File) Save(value string) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
