// Package config loads CLI settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/merlindb/internal/formatter"
)

// Environment variables read by Load. They override the file.
const (
	EnvDatabase       = "MERLINDB_MDB_PATH"
	EnvDatabaseLegacy = "MDB_PATH"
	EnvLogLevel       = "MERLINDB_LOG_LEVEL"
	EnvFormat         = "MERLINDB_FORMAT"
)

// ErrNoDatabase is returned by ResolveDatabase when no source is configured.
var ErrNoDatabase = errors.New("no database given: pass a path or set " + EnvDatabase)

type Config struct {
	Database       string `yaml:"database"`
	Format         string `yaml:"format"`
	Validate       bool   `yaml:"validate"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	CSVSeparators  bool   `yaml:"csv_separators"`
	PostgresSchema string `yaml:"postgres_schema"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Format:        "json",
		LogLevel:      "warn",
		LogFormat:     "text",
		CSVSeparators: true,
	}
}

// Load reads path when it is non-empty, then applies the environment. Keys
// missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	} else if v := os.Getenv(EnvDatabaseLegacy); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
}

func (c *Config) validate() error {
	c.Format = strings.ToLower(c.Format)
	if !slices.Contains(formatter.Formats(), c.Format) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(formatter.Formats(), ", "), c.Format)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ResolveDatabase picks the database source: an explicit argument wins over
// the configured one.
func (c *Config) ResolveDatabase(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if c.Database != "" {
		return c.Database, nil
	}
	return "", ErrNoDatabase
}
