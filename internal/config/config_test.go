package config

import (
	"testing"

	"github.com/caloflow/caloflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
	assert.Equal(t, "https://api.deepseek.com", cfg.AI.DeepSeekBaseURL)
}

func TestLoadStorageBackends(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.Storage)

	t.Setenv("STORAGE_BACKEND", "Postgres")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
}

func TestLoadRejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}
