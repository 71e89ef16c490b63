package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "dynamodb", cfg.StorageBackend)
	assert.Equal(t, 33, cfg.TickIntervalMillis)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORAGE_BACKEND", "dynamodb")
	t.Setenv("TABLE_NAME", "mindgraph")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENABLE_TRACING", "true")
	t.Setenv("LAYOUT_TICK_INTERVAL_MS", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "dynamodb", cfg.StorageBackend)
	assert.Equal(t, "mindgraph", cfg.DynamoDBTable)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, 50, cfg.TickIntervalMillis)
}

func TestValidate_ProductionRequiresJWTKeys(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_PUBLIC_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadTuningFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	content := []byte(`
graph:
  max_edges_per_node: 6
  strong_threshold: 5
layout:
  width: 1024
  alpha_min: 0.005
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	tuning, err := LoadTuningFile(path)
	require.NoError(t, err)

	assert.Equal(t, 6, tuning.Graph.MaxEdgesPerNode)
	assert.Equal(t, 5, tuning.Graph.StrongThreshold)
	assert.Equal(t, 1024.0, tuning.Layout.Width)
	assert.Equal(t, 0.005, tuning.Layout.AlphaMin)

	// Omitted fields keep their defaults.
	defaults := DefaultTuning()
	assert.Equal(t, defaults.Graph.WeakThreshold, tuning.Graph.WeakThreshold)
	assert.Equal(t, defaults.Layout.Height, tuning.Layout.Height)
}

func TestLoadTuningFile_Missing(t *testing.T) {
	_, err := LoadTuningFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
