package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv("MOUNTVACATION_API_KEY", "test-key")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "test-key", cfg.MountVacation.APIKey)
		assert.Equal(t, "https://api.mountvacation.com", cfg.MountVacation.BaseURL)
		assert.Equal(t, "en", cfg.MountVacation.Language)
		assert.Equal(t, 30*time.Second, cfg.MountVacation.Timeout())
		assert.Equal(t, 5, cfg.Search.MaxResultsDefault)
		assert.Equal(t, 20, cfg.Search.MaxResultsLimit)
		assert.Equal(t, 300*time.Second, cfg.Cache.TTL())
		assert.Equal(t, 60*time.Second, cfg.Cache.ErrorTTL())
		assert.Equal(t, 1000, cfg.Cache.MaxSize)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, "stdio", cfg.Server.Transport)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.True(t, cfg.Holidays.Enabled)
		assert.Equal(t, "https://date.nager.at/api/v3", cfg.Holidays.BaseURL)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		t.Setenv("MOUNTVACATION_API_KEY", "")
		os.Unsetenv("MOUNTVACATION_API_KEY")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "MOUNTVACATION_API_KEY")
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("MOUNTVACATION_API_KEY", "env-key")
		t.Setenv("MAX_RESULTS_LIMIT", "10")
		t.Setenv("MAX_RESULTS_DEFAULT", "3")
		t.Setenv("CACHE_TTL_SECONDS", "42")
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("MCP_TRANSPORT", "http")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.MountVacation.APIKey)
		assert.Equal(t, 10, cfg.Search.MaxResultsLimit)
		assert.Equal(t, 3, cfg.Search.MaxResultsDefault)
		assert.Equal(t, 42*time.Second, cfg.Cache.TTL())
		assert.Equal(t, "redis", cfg.Cache.Backend)
		assert.Equal(t, "http", cfg.Server.Transport)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		t.Setenv("MOUNTVACATION_API_KEY", "")
		os.Unsetenv("MOUNTVACATION_API_KEY")

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "mountvacation:\n  api_key: file-key\nsearch:\n  max_results_limit: 15\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.MountVacation.APIKey)
		assert.Equal(t, 15, cfg.Search.MaxResultsLimit)
		assert.Equal(t, 5, cfg.Search.MaxResultsDefault)
	})

	t.Run("InvalidBackend", func(t *testing.T) {
		t.Setenv("MOUNTVACATION_API_KEY", "k")
		t.Setenv("CACHE_BACKEND", "memcached")

		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "CACHE_BACKEND")
	})

	t.Run("DefaultAboveLimit", func(t *testing.T) {
		t.Setenv("MOUNTVACATION_API_KEY", "k")
		t.Setenv("MAX_RESULTS_DEFAULT", "30")

		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "MAX_RESULTS_DEFAULT")
	})
}
