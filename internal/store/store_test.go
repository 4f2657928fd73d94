package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"vibestream/internal/config"
	"vibestream/internal/encryption"
	"vibestream/internal/model"
	"vibestream/internal/store"
	"vibestream/internal/vibe"
)

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Accounts: []*model.Account{
			{
				Username:         "alice",
				DisplayName:      "Alice",
				Email:            "alice@example.com",
				FollowingMap:     map[string]bool{"bob": true},
				RepostedVideoIDs: []string{"v1"},
			},
		},
		Videos: []*model.Video{
			{ID: "v1", AuthorUsername: "alice", Description: "hello", Comments: []*model.Comment{}},
		},
		ActiveAccountIndex: 0,
		LoggedIn:           true,
	}
}

// roundTrip saves a sample snapshot through the store and checks what comes
// back.
func roundTrip(t *testing.T, s vibe.SnapshotStore) {
	t.Helper()

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if loaded != nil {
		t.Fatalf("Load() on empty store = %v, want nil", loaded)
	}

	if err := s.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err = s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil after save")
	}
	if len(loaded.Accounts) != 1 || loaded.Accounts[0].Username != "alice" {
		t.Errorf("accounts did not round-trip: %+v", loaded.Accounts)
	}
	if !loaded.Accounts[0].FollowingMap["bob"] {
		t.Error("following map did not round-trip")
	}
	if len(loaded.Videos) != 1 || loaded.Videos[0].ID != "v1" {
		t.Errorf("videos did not round-trip: %+v", loaded.Videos)
	}
	if !loaded.LoggedIn || loaded.ActiveAccountIndex != 0 {
		t.Error("session pointer did not round-trip")
	}

	// A second save replaces, not appends.
	next := sampleSnapshot()
	next.Accounts[0].Bio = "rewritten"
	if err := s.Save(next); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	loaded, err = s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Accounts[0].Bio != "rewritten" {
		t.Error("second save did not replace the snapshot")
	}
}

func TestMemoryStore(t *testing.T) {
	s := store.NewMemoryStore()
	roundTrip(t, s)

	t.Run("load returns an independent copy", func(t *testing.T) {
		first, _ := s.Load()
		first.Accounts[0].Username = "mutated"
		second, _ := s.Load()
		if second.Accounts[0].Username == "mutated" {
			t.Error("Load() returned a shared snapshot")
		}
	})

	t.Run("failing saves leave the stored copy untouched", func(t *testing.T) {
		s := store.NewMemoryStore()
		if err := s.Save(sampleSnapshot()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		s.FailSaves = errors.New("injected failure")
		broken := sampleSnapshot()
		broken.Accounts[0].Username = "never-stored"
		if err := s.Save(broken); err == nil {
			t.Fatal("Save() succeeded with FailSaves set")
		}

		s.FailSaves = nil
		loaded, _ := s.Load()
		if loaded.Accounts[0].Username != "alice" {
			t.Error("failed save modified the stored snapshot")
		}
	})
}

func TestFileSystemStore(t *testing.T) {
	t.Run("plain round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshots", "snapshot.json")
		s, err := store.NewFileSystemStore(path, encryption.NewPlainEncryptor())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		roundTrip(t, s)
	})

	t.Run("encrypted round trip", func(t *testing.T) {
		dir := t.TempDir()
		enc := encryption.NewAgeEncryptor(config.EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(dir, "key.pub"),
			PrivateKeyPath: filepath.Join(dir, "key"),
		})
		if err := enc.Setup(); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}

		s, err := store.NewFileSystemStore(filepath.Join(dir, "snapshot.age"), enc)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		roundTrip(t, s)
	})

	t.Run("requires a path", func(t *testing.T) {
		if _, err := store.NewFileSystemStore("", encryption.NewPlainEncryptor()); err == nil {
			t.Error("NewFileSystemStore(\"\") expected an error")
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	t.Run("round trip in memory", func(t *testing.T) {
		s, err := store.NewSQLiteStore(":memory:", encryption.NewPlainEncryptor(), nil)
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		defer s.Close()
		roundTrip(t, s)
	})

	t.Run("round trip on disk survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vibestream.db")

		s, err := store.NewSQLiteStore(path, encryption.NewPlainEncryptor(), nil)
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		if err := s.Save(sampleSnapshot()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reopened, err := store.NewSQLiteStore(path, encryption.NewPlainEncryptor(), nil)
		if err != nil {
			t.Fatalf("reopening error = %v", err)
		}
		defer reopened.Close()

		loaded, err := reopened.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded == nil || loaded.Accounts[0].Username != "alice" {
			t.Error("snapshot lost across close and reopen")
		}
	})
}

func TestNewStoreFromConfig(t *testing.T) {
	enc := encryption.NewPlainEncryptor()

	tests := []struct {
		name    string
		cfg     config.StoreConfig
		wantErr bool
	}{
		{"memory", config.StoreConfig{Type: "memory"}, false},
		{"filesystem", config.StoreConfig{Type: "filesystem", SnapshotPath: filepath.Join(t.TempDir(), "s.json")}, false},
		{"filesystem without path", config.StoreConfig{Type: "filesystem"}, true},
		{"sqlite", config.StoreConfig{Type: "sqlite", DataDir: t.TempDir()}, false},
		{"default is sqlite", config.StoreConfig{DataDir: t.TempDir()}, false},
		{"sqlite without data dir", config.StoreConfig{Type: "sqlite"}, true},
		{"unknown", config.StoreConfig{Type: "bogus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := store.NewStoreFromConfig(tt.cfg, enc, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
