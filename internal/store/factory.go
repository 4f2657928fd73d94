package store

import (
	"fmt"
	"os"
	"path/filepath"

	"vibestream/internal/config"
	"vibestream/internal/vibe"
)

// NewStoreFromConfig creates a SnapshotStore implementation based on the
// store config type.
func NewStoreFromConfig(cfg config.StoreConfig, enc vibe.Encryptor, clock vibe.Clock) (vibe.SnapshotStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.SnapshotPath == "" {
			return nil, fmt.Errorf("filesystem store requires snapshot_path to be set")
		}
		return NewFileSystemStore(cfg.SnapshotPath, enc)
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite store requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "vibestream.db"), enc, clock)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
