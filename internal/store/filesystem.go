package store

import (
	"fmt"
	"os"
	"path/filepath"

	"vibestream/internal/model"
	"vibestream/internal/vibe"
)

// FileSystemStore persists the snapshot as a single document on disk.
// Writes go through a temp file and rename so a crash mid-save never leaves
// a truncated snapshot behind.
type FileSystemStore struct {
	path string
	enc  vibe.Encryptor
}

var _ vibe.SnapshotStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates a store writing to path, wrapping the document
// with enc.
func NewFileSystemStore(path string, enc vibe.Encryptor) (*FileSystemStore, error) {
	if path == "" {
		return nil, fmt.Errorf("filesystem store requires a snapshot path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &FileSystemStore{path: path, enc: enc}, nil
}

// Load reads the snapshot document, or returns nil if none exists yet.
func (f *FileSystemStore) Load() (*model.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return decodeSnapshot(data, f.enc)
}

// Save writes the snapshot document atomically.
func (f *FileSystemStore) Save(snap *model.Snapshot) error {
	data, err := encodeSnapshot(snap, f.enc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing snapshot file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *FileSystemStore) Close() error { return nil }
