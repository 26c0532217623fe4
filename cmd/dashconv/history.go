package main

import (
	"fmt"

	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/storage"
)

// openHistory opens the conversion history named by dbPath, falling back to
// the configured database.
func openHistory(dbPath string) (*storage.DuckDBStore, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, err
	}
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	store, err := storage.NewDuckDBStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", dbPath, err)
	}
	logger.Debug("Opened conversion history", "path", dbPath)
	return store, nil
}
