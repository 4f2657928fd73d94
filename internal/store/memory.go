package store

import (
	"sync"

	"vibestream/internal/model"
	"vibestream/internal/vibe"
)

// MemoryStore is an in-memory implementation of the SnapshotStore interface,
// useful for testing. This implementation is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *model.Snapshot

	// FailSaves makes every Save return an error, for exercising the
	// stale-durable-copy path.
	FailSaves error
}

var _ vibe.SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored snapshot, or nil if nothing has been
// saved.
func (m *MemoryStore) Load() (*model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap == nil {
		return nil, nil
	}
	return m.snap.Clone(), nil
}

// Save replaces the stored snapshot with a copy of snap.
func (m *MemoryStore) Save(snap *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves != nil {
		return m.FailSaves
	}
	m.snap = snap.Clone()
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
