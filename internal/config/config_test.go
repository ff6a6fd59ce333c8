package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Catalog.TTLSecs)
	assert.Equal(t, "lead-radar/1.0", cfg.Feed.UserAgent)
	assert.Equal(t, 72, cfg.Scoring.Hot.MinTotal)
	assert.Equal(t, 60, cfg.Scoring.Hot.MinIntent)
	assert.Equal(t, 21, cfg.Scoring.Hot.MaxDays)
	assert.Equal(t, 55, cfg.Scoring.Warm.MinTotal)
	assert.Equal(t, 168, cfg.Lifecycle.HotIdleHours)
	assert.Equal(t, 24, cfg.Lifecycle.WarmIdleHours)
	assert.Equal(t, 120, cfg.Lifecycle.ColdTTLMinutes)
	assert.Equal(t, 90, cfg.Lifecycle.SweepIntervalSecs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADRADAR_SERVER_PORT", "9090")
	t.Setenv("LEADRADAR_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("catalog:\n  ttl_secs: 60\n  source_files:\n    - listings.json\nscoring:\n  hot:\n    min_total: 80\n")
	require.NoError(t, os.WriteFile("config.yaml", yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Catalog.TTLSecs)
	assert.Equal(t, []string{"listings.json"}, cfg.Catalog.SourceFiles)
	assert.Equal(t, 80, cfg.Scoring.Hot.MinTotal)
	assert.Equal(t, 60, cfg.Scoring.Hot.MinIntent, "unset keys keep defaults")
}

func TestCatalogTTL(t *testing.T) {
	c := CatalogConfig{TTLSecs: 120}
	assert.Equal(t, "2m0s", c.TTL().String())
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}
