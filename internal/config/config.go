// Package config loads application configuration from an optional YAML file
// and FOLLOWUP_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

const (
	// BackendJSON stores the snapshot as a JSON file.
	BackendJSON = "json"
	// BackendSQLite stores the snapshot in a sqlite database.
	BackendSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Log     LogConfig     `koanf:"log"`
}

// StorageConfig selects and locates the snapshot backend.
type StorageConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level    string `koanf:"level"`
	Disabled bool   `koanf:"disabled"`
}

// Load reads configuration with the usual precedence: environment variables
// over the YAML file over defaults. A missing config file is fine.
//
// Environment variables map section_field to section.field:
//
//	FOLLOWUP_STORAGE_BACKEND -> storage.backend
//	FOLLOWUP_LOG_LEVEL       -> log.level
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "followup", "config.yaml")
	}

	if content, err := os.ReadFile(configPath); err == nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("FOLLOWUP_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "FOLLOWUP_"))
		return strings.Replace(s, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendJSON
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Storage.Backend != BackendJSON && c.Storage.Backend != BackendSQLite {
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			BackendJSON, BackendSQLite, c.Storage.Backend)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q is not a valid level: %w", c.Log.Level, err)
	}
	return nil
}
