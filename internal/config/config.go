// Package config provides configuration management for gpm.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (GPM_*)
// 3. Project config (.gpm/config.yaml under the project root)
// 4. Home config (~/.gpm/config.yaml)
// 5. Defaults
//
// The "active project" is an explicit config value threaded into every
// entry point, never hidden process-global state.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all gpm configuration.
type Config struct {
	// Project is the project root directory to operate on.
	Project string `yaml:"project"`

	// Output controls the default output format (table, json).
	Output string `yaml:"output"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose"`
}

// Default config values.
const (
	defaultProject = "."
	defaultOutput  = "table"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Project: defaultProject,
		Output:  defaultOutput,
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults.
// flagOverrides fields are applied only when non-zero.
func Load(flagOverrides *Config) *Config {
	cfg := Default()

	if homeCfg := loadFromPath(homeConfigPath()); homeCfg != nil {
		merge(cfg, homeCfg)
	}

	// The project config lives under whichever project root is in effect
	// so far (env or flag may point elsewhere than cwd).
	root := cfg.Project
	if v := os.Getenv("GPM_PROJECT"); v != "" {
		root = v
	}
	if flagOverrides != nil && flagOverrides.Project != "" {
		root = flagOverrides.Project
	}
	if projCfg := loadFromPath(filepath.Join(root, ".gpm", "config.yaml")); projCfg != nil {
		merge(cfg, projCfg)
	}

	applyEnv(cfg)

	if flagOverrides != nil {
		merge(cfg, flagOverrides)
	}
	return cfg
}

func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gpm", "config.yaml")
}

func loadFromPath(path string) *Config {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	return &cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GPM_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("GPM_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("GPM_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
}

// merge overwrites dst fields with non-zero src fields.
func merge(dst, src *Config) {
	if src.Project != "" {
		dst.Project = src.Project
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.Verbose {
		dst.Verbose = true
	}
}
