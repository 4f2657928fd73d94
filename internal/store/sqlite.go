package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vibestream/internal/model"
	"vibestream/internal/store/migrations"
	"vibestream/internal/vibe"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists the snapshot in a single-row SQLite table. The row
// holds the serialized (and possibly encrypted) document; SQLite handles the
// atomic replace.
type SQLiteStore struct {
	db    *sql.DB
	enc   vibe.Encryptor
	clock vibe.Clock
}

var _ vibe.SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and migrates it to
// the latest schema. path can be ":memory:" for tests.
func NewSQLiteStore(path string, enc vibe.Encryptor, clock vibe.Clock) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating snapshot database: %w", err)
	}

	return &SQLiteStore{db: db, enc: enc, clock: clock}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for tests that need a raw connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward
	// compatibility).
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Load returns the persisted snapshot, or nil if none has been saved.
func (s *SQLiteStore) Load() (*model.Snapshot, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE id = 1").Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading snapshot row: %w", err)
	}
	return decodeSnapshot(data, s.enc)
}

// Save upserts the snapshot row.
func (s *SQLiteStore) Save(snap *model.Snapshot) error {
	data, err := encodeSnapshot(snap, s.enc)
	if err != nil {
		return err
	}

	var savedAt time.Time
	if s.clock != nil {
		savedAt = s.clock.Now()
	} else {
		savedAt = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (id, data, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		data, savedAt,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot row: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
