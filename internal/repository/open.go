package repository

import (
	"github.com/rs/zerolog"

	"commander-league/internal/config"
	"commander-league/internal/database"
	"commander-league/internal/store"
)

// Open builds the backend named by cfg.StoreBackend. The returned function
// releases it.
func Open(cfg *config.Config, logger zerolog.Logger) (store.Repository, func() error, error) {
	if cfg.StoreBackend != config.BackendSQLite {
		return NewFileRepositoryFromConfig(cfg, logger), func() error { return nil }, nil
	}

	sqlDB, err := database.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	repo := NewSQLiteRepository(sqlDB, logger)
	return repo, repo.Close, nil
}
