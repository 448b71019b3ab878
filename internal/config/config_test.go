package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saadjs/kcal-balance/internal/config"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	require.Equal(t, service.DefaultSettings(), cfg.Energy)
	require.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	require.Equal(t, filepath.Join(dir, ".config", "balance", "balance.db"), cfg.Store.Path)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Empty(t, cfg.File)
}

func TestLoadConfigFileAndBackendFromPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "balance.yaml")
	body := []byte(`
store:
  path: ` + filepath.Join(dir, "Health_Tracker_DB.xlsx") + `
timezone: UTC
energy:
  daily_basal_calories: 2100
  deficit_goal_offset: -300
log:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	require.Equal(t, store.BackendWorkbook, cfg.Store.Backend)
	require.Equal(t, 2100, cfg.Energy.DailyBasalCalories)
	require.Equal(t, -300, cfg.Energy.DeficitGoalOffset)
	require.Equal(t, 3500.0, cfg.Energy.CaloriesPerPound)
	require.Equal(t, "UTC", cfg.Location().String())
	require.Equal(t, path, cfg.File)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("BALANCE_ENERGY_DAILY_BASAL_CALORIES", "1900")
	t.Setenv("BALANCE_STORE_BACKEND", "xlsx")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	require.Equal(t, 1900, cfg.Energy.DailyBasalCalories)
	require.Equal(t, store.BackendWorkbook, cfg.Store.Backend)
	require.Equal(t, "Health_Tracker_DB.xlsx", filepath.Base(cfg.Store.Path))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	cases := map[string]string{
		"BALANCE_TIMEZONE":                  "Mars/Olympus_Mons",
		"BALANCE_ENERGY_CALORIES_PER_POUND": "0",
		"BALANCE_STORE_BACKEND":             "sheets",
		"BALANCE_LOG_FORMAT":                "xml",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load(config.New(), "")
			require.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := config.Load(config.New(), filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}
