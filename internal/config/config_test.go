package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("/home/user/.local/share/vibestream")

	if cfg.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %q, want sqlite", cfg.Store.Type)
	}
	if cfg.Store.DataDir != "/home/user/.local/share/vibestream/data" {
		t.Errorf("Store.DataDir = %q", cfg.Store.DataDir)
	}
	if cfg.Encryption.Type != "plain" {
		t.Errorf("Encryption.Type = %q, want plain", cfg.Encryption.Type)
	}
	if !cfg.SeedFeed {
		t.Error("SeedFeed = false, want true by default")
	}
	if cfg.LogDir != "/home/user/.local/share/vibestream/log" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
}

func TestManager_ReadWrite(t *testing.T) {
	cfg := NewConfig("/tmp/vibestream")
	cfg.MasterAdminEmail = "root@vibe.local"
	cfg.Store.Type = "filesystem"
	cfg.Store.SnapshotPath = "/tmp/vibestream/snapshot.json"
	cfg.Encryption.Type = "age"
	cfg.Assistant.Type = "gemini"
	cfg.Assistant.Model = "gemini-3-flash-preview"

	m := &Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.MasterAdminEmail != cfg.MasterAdminEmail {
		t.Errorf("MasterAdminEmail = %q, want %q", got.MasterAdminEmail, cfg.MasterAdminEmail)
	}
	if got.Store.Type != "filesystem" || got.Store.SnapshotPath != cfg.Store.SnapshotPath {
		t.Errorf("Store = %+v did not round-trip", got.Store)
	}
	if got.Encryption.Type != "age" {
		t.Errorf("Encryption.Type = %q, want age", got.Encryption.Type)
	}
	if got.Assistant.Type != "gemini" || got.Assistant.Model != cfg.Assistant.Model {
		t.Errorf("Assistant = %+v did not round-trip", got.Assistant)
	}
}

func TestManager_Read_InvalidTOML(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("this is [not valid")); err == nil {
		t.Error("Read() expected an error for invalid TOML")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates the file and parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config", "vibestream.toml")
		cfg := NewConfig("/data/vibestream")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != cfg.BaseDir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vibestream.toml")
		if err := os.WriteFile(path, []byte("base_dir = \"/existing\"\n"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if err := Init(path, NewConfig("/new")); err == nil {
			t.Error("Init() expected an error for an existing config")
		}
	})
}

func TestReadFromFile_Missing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("ReadFromFile() expected an error for a missing file")
	}
}
