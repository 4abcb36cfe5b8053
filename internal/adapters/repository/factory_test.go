package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todo/internal/infrastructure/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("file driver creates the store", func(t *testing.T) {
		path := filepath.Join(dir, "data", "todos.json")
		cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverFile, Path: path}}

		repo, err := Open(ctx, cfg, newTestLogger(t))
		require.NoError(t, err)
		defer repo.Close()

		assert.IsType(t, &FileRepository{}, repo)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("memory driver", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

		repo, err := Open(ctx, cfg, newTestLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &MemoryRepository{}, repo)
	})

	t.Run("sqlite driver", func(t *testing.T) {
		cfg := &config.Config{
			Storage:  config.StorageConfig{Driver: config.DriverSQLite},
			Database: config.DatabaseConfig{DSN: filepath.Join(dir, "todos.db"), MaxOpenConns: 1, MaxIdleConns: 1},
		}

		repo, err := Open(ctx, cfg, newTestLogger(t))
		require.NoError(t, err)
		defer repo.Close()

		assert.IsType(t, &SQLRepository{}, repo)
		assert.NoError(t, repo.Ping(ctx))
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "redis"}}

		_, err := Open(ctx, cfg, newTestLogger(t))
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}
