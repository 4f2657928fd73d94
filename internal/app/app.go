package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"vibestream/internal/assist"
	"vibestream/internal/config"
	"vibestream/internal/encryption"
	"vibestream/internal/store"
	"vibestream/internal/vibe"
)

// VibeApp is the application layer between the CLI and the session
// controller. It constructs all dependencies from config, loads the
// snapshot, and manages resource lifecycle on Close.
type VibeApp struct {
	cfg       *config.Config
	store     vibe.SnapshotStore
	service   *vibe.Service
	assistant vibe.Assistant
	logFile   *os.File
}

// NewVibeApp creates a fully wired VibeApp from the given config.
// operation identifies the CLI command being run (e.g. "Login", "Publish").
// The caller must call Close when done.
func NewVibeApp(cfg *config.Config, operation string) (*VibeApp, error) {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	clock := vibe.RealClock{}
	st, err := store.NewStoreFromConfig(cfg.Store, enc, clock)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	opID := operation + "-" + time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	vlog := &slogAdapter{l: logger}

	asst, err := assist.NewAssistantFromConfig(cfg.Assistant, vlog)
	if err != nil {
		logFile.Close()
		st.Close()
		return nil, fmt.Errorf("creating assistant: %w", err)
	}

	svc := vibe.NewService(st, vlog, clock, vibe.UUIDGenerator{}, vibe.RandomCodeGenerator{}, cfg.MasterAdminEmail, cfg.SeedFeed)
	if err := svc.Load(); err != nil && !errors.Is(err, vibe.ErrPersistence) {
		logFile.Close()
		st.Close()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return &VibeApp{
		cfg:       cfg,
		store:     st,
		service:   svc,
		assistant: asst,
		logFile:   logFile,
	}, nil
}

// Service returns the session controller.
func (a *VibeApp) Service() *vibe.Service { return a.service }

// Assistant returns the optional text-generation collaborator.
func (a *VibeApp) Assistant() vibe.Assistant { return a.assistant }

// Config returns the loaded configuration.
func (a *VibeApp) Config() *config.Config { return a.cfg }

// Close releases the store and the log file.
func (a *VibeApp) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
