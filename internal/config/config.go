// Package config resolves settings from defaults, an optional config file,
// a .env file, BALANCE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/saadjs/kcal-balance/internal/app"
	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/logger"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

const EnvPrefix = "BALANCE"

type Config struct {
	Store    StoreConfig      `mapstructure:"store" json:"store"`
	Timezone string           `mapstructure:"timezone" json:"timezone"`
	Energy   service.Settings `mapstructure:"energy" json:"energy"`
	Log      LogConfig        `mapstructure:"log" json:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" json:"config_file,omitempty"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend" json:"backend"`
	Path    string `mapstructure:"path" json:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// New returns a viper instance with defaults and environment binding set up,
// ready for flags to be bound before Load.
func New() *viper.Viper {
	v := viper.New()
	defaults := service.DefaultSettings()
	v.SetDefault("store.backend", "")
	v.SetDefault("store.path", "")
	v.SetDefault("timezone", "")
	v.SetDefault("energy.daily_basal_calories", defaults.DailyBasalCalories)
	v.SetDefault("energy.deficit_goal_offset", defaults.DeficitGoalOffset)
	v.SetDefault("energy.calories_per_pound", defaults.CaloriesPerPound)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into a validated Config. configFile may be empty,
// in which case config.yaml is looked up in the working directory and the
// app config directory; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := app.ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.resolveStore(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv exports variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) resolveStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Store.Path = strings.TrimSpace(c.Store.Path)
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendSQLite
		if c.Store.Path != "" {
			c.Store.Backend = store.BackendForPath(c.Store.Path)
		}
	}
	if c.Store.Backend == "workbook" || c.Store.Backend == "excel" {
		c.Store.Backend = store.BackendWorkbook
	}
	if c.Store.Path != "" {
		if strings.HasPrefix(c.Store.Path, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home dir: %w", err)
			}
			c.Store.Path = filepath.Join(home, c.Store.Path[2:])
		}
		return nil
	}
	var err error
	switch c.Store.Backend {
	case store.BackendWorkbook:
		c.Store.Path, err = app.DefaultWorkbookPath()
	default:
		c.Store.Path, err = app.DefaultDBPath()
	}
	return err
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendWorkbook:
	default:
		return fmt.Errorf("invalid store.backend %q (use sqlite or xlsx)", c.Store.Backend)
	}
	if _, err := clock.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if err := c.Energy.Validate(); err != nil {
		return fmt.Errorf("invalid energy settings: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// Location is the configured time zone; Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := clock.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
