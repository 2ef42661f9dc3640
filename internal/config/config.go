// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the clone command configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/clone/codec"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "clone.yaml"

// Config holds all command configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Clone   CloneConfig   `yaml:"clone"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// CloneConfig configures cloning passes.
type CloneConfig struct {
	MaxNodes int  `yaml:"max_nodes"` // 0 = unlimited
	Verify   bool `yaml:"verify"`    // check shape and disjointness of every clone
}

// OutputConfig configures where results go.
type OutputConfig struct {
	Format      string `yaml:"format"`      // json, yaml, cbor; empty keeps the input format
	Dir         string `yaml:"dir"`         // empty writes to stdout
	Concurrency int    `yaml:"concurrency"` // inputs processed at once
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Clone: CloneConfig{
			MaxNodes: 0,
			Verify:   true,
		},
		Output: OutputConfig{
			Concurrency: 4,
		},
	}
}

// Load loads configuration from a YAML file over the defaults and applies
// CLONE_* environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CLONE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CLONE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("CLONE_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("CLONE_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("CLONE_MAX_NODES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLONE_MAX_NODES: %w", err)
		}
		c.Clone.MaxNodes = n
	}
	if v := os.Getenv("CLONE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLONE_CONCURRENCY: %w", err)
		}
		c.Output.Concurrency = n
	}
	if v := os.Getenv("CLONE_VERIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CLONE_VERIFY: %w", err)
		}
		c.Clone.Verify = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Clone.MaxNodes < 0 {
		return fmt.Errorf("clone.max_nodes: must not be negative, got %d", c.Clone.MaxNodes)
	}
	if c.Output.Concurrency < 1 {
		return fmt.Errorf("output.concurrency: must be at least 1, got %d", c.Output.Concurrency)
	}
	if c.Output.Format != "" {
		if _, err := codec.ParseFormat(c.Output.Format); err != nil {
			return fmt.Errorf("output.format: %w", err)
		}
	}
	return nil
}

// OutputFormat returns the configured output format, or 0 to keep the input
// format.
func (c *Config) OutputFormat() codec.Format {
	f, _ := codec.ParseFormat(c.Output.Format)
	return f
}
