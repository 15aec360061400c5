package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.MaxAttempts)
	assert.Equal(t, 100, cfg.Pipeline.BackoffBaseMS)
	assert.Equal(t, 1000, cfg.Pipeline.BackoffCapMS)
	assert.False(t, cfg.Pipeline.RetryParsing)
	assert.Equal(t, "catalog.toml", cfg.Catalog.Path)
	assert.False(t, cfg.Log.Debug)
	assert.NotEmpty(t, cfg.Fetch.CacheDir)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSeconds)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartload.toml")
	content := `
[pipeline]
max_attempts = 5
backoff_base_ms = 250
retry_parsing = true

[catalog]
path = "/data/charts/catalog.toml"
watch = true

[log]
debug = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Pipeline.MaxAttempts)
	assert.Equal(t, 250, cfg.Pipeline.BackoffBaseMS)
	assert.True(t, cfg.Pipeline.RetryParsing)
	assert.Equal(t, "/data/charts/catalog.toml", cfg.Catalog.Path)
	assert.True(t, cfg.Catalog.Watch)
	assert.True(t, cfg.Log.Debug)

	// Unset values keep their defaults
	assert.Equal(t, 1000, cfg.Pipeline.BackoffCapMS)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("CHARTLOAD_PIPELINE_MAX_ATTEMPTS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.MaxAttempts)
}

func TestLoadCaches(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
