package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/forecast"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forecast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{EnvDatabaseURL, EnvSQLitePath, EnvLogMode, EnvLeadTimeDays} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, engine.DefaultConfig(), cfg.Engine)
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
engine:
  season_length: 12
  arima:
    p: 1
    d: 1
    q: 0
  weights:
    arima: 0.5
database:
  sqlite_path: /tmp/shop.db
log:
  mode: production
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Engine.SeasonLength)
	assert.Equal(t, 1, cfg.Engine.ARIMA.P)
	assert.Equal(t, 0, cfg.Engine.ARIMA.Q)
	assert.Equal(t, 0.5, cfg.Engine.Weights["arima"])
	assert.Equal(t, engine.DefaultConfig().Weights["sarima"], cfg.Engine.Weights["sarima"])
	assert.Equal(t, engine.DefaultConfig().MinPoints, cfg.Engine.MinPoints)
	assert.Equal(t, "/tmp/shop.db", cfg.Database.SQLitePath)
	assert.Equal(t, "production", cfg.Log.Mode)
}

func TestLoadEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDatabaseURL, "postgres://localhost/shop")
	t.Setenv(EnvLogMode, "prod")
	t.Setenv(EnvLeadTimeDays, "10")

	cfg, err := Load(writeFile(t, "engine:\n  lead_time_days: 3\nlog:\n  mode: development\n"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/shop", cfg.Database.URL)
	assert.Equal(t, "prod", cfg.Log.Mode)
	assert.Equal(t, 10, cfg.Engine.LeadTimeDays)
}

func TestLoadRejectsBadInput(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "engine:\n  season_lenght: 7\n"))
	assert.ErrorContains(t, err, "season_lenght")

	_, err = Load(writeFile(t, "engine:\n  holdout_fraction: 2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrInvalidInput)

	t.Setenv(EnvLeadTimeDays, "a week")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvLeadTimeDays)
}

func TestLoadEmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
