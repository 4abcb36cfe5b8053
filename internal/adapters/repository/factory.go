package repository

import (
	"context"
	"fmt"

	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/database"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// Open returns the repository selected by cfg.Storage.Driver. The file
// store is created on disk before it is returned.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.TodoRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile, "":
		repo, err := NewFileRepository(cfg.Storage.Path, log)
		if err != nil {
			return nil, err
		}
		if err := repo.Ensure(); err != nil {
			return nil, fmt.Errorf("failed to prepare todo storage: %w", err)
		}
		log.Infow("Using file storage", "path", repo.Path())
		return repo, nil

	case config.DriverMemory:
		log.Warnw("Using in-memory storage, todos will not survive a restart")
		return NewMemoryRepository(), nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.New(cfg.Storage.Driver, cfg.Database)
		if err != nil {
			return nil, err
		}
		repo, err := NewSQLRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Infow("Using SQL storage", "driver", cfg.Storage.Driver)
		return repo, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
