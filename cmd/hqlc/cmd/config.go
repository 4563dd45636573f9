package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is hqlc's project configuration, loaded from .hqlconfig.yaml the
// way aiseeq-glint's pkg/core.Config loads .glint.yaml: a single struct
// with yaml tags, defaults supplied by DefaultConfig, and a parent-directory
// search when no --config flag is given.
type Config struct {
	// Roots lists additional search-path roots for `(import "…")`. It is
	// loaded from the config file but no command consults it: lowering
	// keeps import sources as written and does not resolve them.
	Roots []string `yaml:"roots,omitempty"`

	// PreserveComments is loaded from the config file but no command
	// consults it: the read command always discards comments during
	// tokenization.
	PreserveComments bool `yaml:"preserveComments"`

	// OutputMode is the default dump format ("text" or "json") the read
	// command falls back to when --format is not given. The lower command
	// always prints JSON.
	OutputMode string `yaml:"outputMode"`
}

// DefaultConfig returns hqlc's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Roots:            nil,
		PreserveComments: false,
		OutputMode:       "text",
	}
}

// LoadConfig reads and parses a .hqlconfig.yaml file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// FindConfig searches startDir and its parents for .hqlconfig.yaml.
func FindConfig(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".hqlconfig.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// resolveConfig honors an explicit --config path, else searches cwd and its
// parents, else falls back to DefaultConfig.
func resolveConfig() (*Config, error) {
	if cfgFile != "" {
		return LoadConfig(cfgFile)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return DefaultConfig(), nil
	}
	found, err := FindConfig(cwd)
	if err != nil {
		return nil, err
	}
	if found == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(found)
}
