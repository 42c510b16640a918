// Package config handles configuration loading and run defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied to unset configuration values.
const (
	DefaultTool           = "gdalwarp"
	DefaultKeyField       = "image_no"
	DefaultClipSuffix     = "_clip"
	DefaultPreviewSize    = 512
	DefaultPreviewQuality = 80
)

// Config represents the optional configuration file structure.
type Config struct {
	Tool           string  `yaml:"tool,omitempty"`
	KeyField       string  `yaml:"key_field,omitempty"`
	ClipSuffix     string  `yaml:"clip_suffix,omitempty"`
	PreviewSize    int     `yaml:"preview_size,omitempty"`
	PreviewQuality float32 `yaml:"preview_quality,omitempty"`
	Preview        bool    `yaml:"preview,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Tool == "" {
		c.Tool = DefaultTool
	}
	if c.KeyField == "" {
		c.KeyField = DefaultKeyField
	}
	if c.ClipSuffix == "" {
		c.ClipSuffix = DefaultClipSuffix
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = DefaultPreviewSize
	}
	if c.PreviewQuality <= 0 || c.PreviewQuality > 100 {
		c.PreviewQuality = DefaultPreviewQuality
	}
}
