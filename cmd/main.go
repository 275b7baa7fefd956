package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cratefm/crate/internal/catalog"
	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/storage"
	"github.com/cratefm/crate/internal/store"
	"github.com/cratefm/crate/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	backend, closeStorage := openStorage(config, logger)
	if closeStorage != nil {
		defer closeStorage()
	}

	st := store.New(store.Opts{
		Storage: backend,
		Logger:  logger,
	})

	var cat tasks.Catalog
	if config.Catalog.BaseURL != "" {
		cat = catalog.New(context.Background(), catalog.Opts{
			BaseURL:      config.Catalog.BaseURL,
			ClientID:     config.Catalog.ClientID,
			TokenURL:     config.Catalog.TokenURL,
			ClientSecret: config.Catalog.ClientSecret,
			RateLimit:    config.Catalog.RateLimit,
			CacheTTL:     time.Duration(config.Catalog.CacheTTLSecs) * time.Second,
			Logger:       logger,
		})
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Store:      st,
		Catalog:    cat,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "crate",
		Usage:    "Manage local playlists backed by catalog search & trending feeds",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// openStorage builds the persistence backend selected by config. A backend
// that fails to open degrades to no persistence with a warning so read-only
// commands still work.
func openStorage(config *shared.Config, logger *log.Logger) (store.Storage, func()) {
	switch config.Storage.Driver {
	case "sqlite":
		db, err := storage.NewDatabase(config.Storage.Path)
		if err != nil {
			logger.Warn("failed to open database, playlists will not persist", "path", config.Storage.Path, "error", err)
			return nil, nil
		}
		storage.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)
		if err := storage.RunMigrations(db); err != nil {
			logger.Warn("failed to run migrations, playlists will not persist", "error", err)
			db.Close()
			return nil, nil
		}
		return storage.NewSQLite(db, store.StorageKey), func() { db.Close() }
	case "file":
		backend, err := storage.NewFile(config.Storage.Path)
		if err != nil {
			logger.Warn("failed to open storage file, playlists will not persist", "path", config.Storage.Path, "error", err)
			return nil, nil
		}
		return backend, nil
	default:
		return storage.NewMemory(""), nil
	}
}
