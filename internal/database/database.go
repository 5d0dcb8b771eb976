// Package database opens the configured trivia store.
package database

import (
	"fmt"
	"log/slog"

	"trivia-api/internal/config"
	"trivia-api/internal/trivia"
	"trivia-api/internal/trivia/gormstore"
	"trivia-api/internal/trivia/sqlite"
)

// Open returns the store for cfg.DBDriver. logger receives ORM diagnostics.
func Open(cfg *config.Config, logger *slog.Logger) (trivia.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		store, err := sqlite.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := gormstore.NewPostgres(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
