package vibe

import (
	"context"
	"io"

	"vibestream/internal/model"
)

// SnapshotStore persists the full application snapshot. The engine loads one
// snapshot at startup and saves a replacement after every successful
// mutation; backends never see partial state.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or nil if nothing has been
	// saved yet.
	Load() (*model.Snapshot, error)

	// Save replaces the persisted snapshot wholesale.
	Save(snap *model.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}

// Encryptor wraps snapshot bytes at rest. Secrets never reach client-readable
// storage in cleartext when a real encryptor is configured.
type Encryptor interface {
	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}

// Assistant drafts captions and comments. It is an optional external
// collaborator: any failure means "no suggestion available" and must never
// block a user action.
type Assistant interface {
	GenerateCaption(ctx context.Context, originalDescription string) string
	SuggestComment(ctx context.Context, videoDescription string) string
}
