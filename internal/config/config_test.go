package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.opencagedata.com/geocode/v1/json", cfg.OpenCage.BaseURL)
	assert.InDelta(t, 1.0, cfg.OpenCage.RateLimitRPS, 0.001)
	assert.InDelta(t, 1.0, cfg.Batch.DelaySecs, 0.001)
	assert.Equal(t, "es", cfg.Batch.Language)
	assert.Equal(t, 30, cfg.Cache.TTLDays)
	assert.Empty(t, cfg.Cache.Path, "cache is opt-in")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chtmp(t)

	yaml := `
opencage:
  api_key: file-key
  rate_limit_rps: 2.5
batch:
  language: en
cache:
  path: geo.db
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.OpenCage.APIKey)
	assert.InDelta(t, 2.5, cfg.OpenCage.RateLimitRPS, 0.001)
	assert.Equal(t, "en", cfg.Batch.Language)
	assert.Equal(t, "geo.db", cfg.Cache.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.InDelta(t, 1.0, cfg.Batch.DelaySecs, 0.001)
	assert.Equal(t, 30, cfg.Cache.TTLDays)
}

func TestLoadEnvOverrides(t *testing.T) {
	chtmp(t)
	t.Setenv("RGEO_OPENCAGE_API_KEY", "env-key")
	t.Setenv("RGEO_CACHE_PATH", "env.db")
	t.Setenv("RGEO_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.OpenCage.APIKey)
	assert.Equal(t, "env.db", cfg.Cache.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadLegacyAPIKeyEnv(t *testing.T) {
	chtmp(t)
	t.Setenv("OPENCAGE_API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.OpenCage.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chtmp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RGEO_OPENCAGE_API_KEY=dotenv-key\n"), 0644))
	t.Setenv("RGEO_OPENCAGE_API_KEY", "")
	os.Unsetenv("RGEO_OPENCAGE_API_KEY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.OpenCage.APIKey)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
}
