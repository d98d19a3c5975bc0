package app

import (
	"fmt"
	"path/filepath"

	"stealthspanner/internal/config"
	"stealthspanner/internal/download"
	"stealthspanner/internal/paths"
	"stealthspanner/internal/storage"
	"stealthspanner/internal/storage/sqlite"
)

// App represents the application context
type App struct {
	Config    *config.Config
	Storage   storage.Storage
	Providers *download.Registry
}

// New creates a new application instance: loads (or creates) the user
// configuration and opens the probe history database.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dataDir, err := paths.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := sqlite.New(filepath.Join(dataDir, "stealthspanner.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &App{
		Config:    cfg,
		Storage:   store,
		Providers: download.NewRegistry(),
	}, nil
}

// Close closes the application and releases resources
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
