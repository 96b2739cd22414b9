// Package config loads forecastctl settings from an optional YAML file and
// the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/goforecast/engine"
)

// Environment variables read by Load. They win over the YAML file.
const (
	EnvDatabaseURL  = "DATABASE_URL"
	EnvSQLitePath   = "SQLITE_PATH"
	EnvLogMode      = "LOG_MODE"
	EnvLeadTimeDays = "FORECAST_LEAD_TIME_DAYS"
)

type Config struct {
	Engine   engine.Config `yaml:"engine"`
	Database Database      `yaml:"database"`
	Log      Log           `yaml:"log"`
}

// Database locates the repository. URL selects Postgres, SQLitePath SQLite.
type Database struct {
	URL        string `yaml:"url"`
	SQLitePath string `yaml:"sqlite_path"`
}

type Log struct {
	Mode string `yaml:"mode"` // "production" for JSON, anything else for console
}

// Default returns the engine defaults with development logging and a local
// SQLite file.
func Default() Config {
	return Config{
		Engine:   engine.DefaultConfig(),
		Database: Database{SQLitePath: "data/forecast.db"},
		Log:      Log{Mode: "development"},
	}
}

// Load reads path (skipped when empty) over the defaults, loads a .env file
// if present, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Engine.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decode rejects unknown keys so a misspelt setting is not silently ignored.
func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv(EnvLogMode); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv(EnvLeadTimeDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLeadTimeDays, err)
		}
		cfg.Engine.LeadTimeDays = days
	}
	return nil
}
