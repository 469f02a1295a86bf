// Package config loads optional YAML configuration for the reclaim CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all reclaim settings. A missing config file means defaults;
// command-line flags override whatever is loaded here.
type Config struct {
	// DBPath is the SQLite database file path (default "reclaim.sqlite3").
	DBPath string `yaml:"db_path"`

	// EmailDomain is the institutional domain claimant emails must use
	// (default "umanitoba.ca").
	EmailDomain string `yaml:"email_domain"`

	// LogPath is an optional log file; empty means stdout/stderr only.
	LogPath string `yaml:"log_path"`

	// SeedDemo loads demo items into an empty catalog on first browse
	// (default true).
	SeedDemo *bool `yaml:"seed_demo"`
}

// DefaultPath is the config file looked up when -config is not given.
const DefaultPath = "reclaim.yaml"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:      "reclaim.sqlite3",
		EmailDomain: "umanitoba.ca",
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
// A missing file at the default path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && path == DefaultPath {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "reclaim.sqlite3"
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "umanitoba.ca"
	}
	return cfg, nil
}

// SeedDemoEnabled handles the nil-pointer case for the default (true).
func (c *Config) SeedDemoEnabled() bool {
	if c.SeedDemo == nil {
		return true
	}
	return *c.SeedDemo
}
