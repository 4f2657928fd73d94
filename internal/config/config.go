package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for vibestream.
type Config struct {
	BaseDir          string           `toml:"base_dir"`
	LogDir           string           `toml:"log_dir"`
	MasterAdminEmail string           `toml:"master_admin_email"`
	SeedFeed         bool             `toml:"seed_feed"`
	Store            StoreConfig      `toml:"store"`
	Encryption       EncryptionConfig `toml:"encryption"`
	Assistant        AssistantConfig  `toml:"assistant"`
}

// StoreConfig represents configuration for the snapshot store backend.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", or "sqlite"

	// Filesystem-specific fields (only used when Type == "filesystem")
	SnapshotPath string `toml:"snapshot_path,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used to protect the
// persisted snapshot at rest.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "plain" (default) or "age"
	PublicKeyPath  string `toml:"public_key_path,omitempty"`
	PrivateKeyPath string `toml:"private_key_path,omitempty"`
}

// AssistantConfig represents configuration for the optional text-generation
// collaborator.
type AssistantConfig struct {
	Type           string `toml:"type"` // "none" (default) or "gemini"
	APIKey         string `toml:"api_key,omitempty"`
	Model          string `toml:"model,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
}

// NewConfig creates a new Config with default paths rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		SeedFeed: true,
		Store: StoreConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Encryption: EncryptionConfig{
			Type:           "plain",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "vibestream.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "vibestream.key"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided
// Config. Fails if a config file already exists.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
