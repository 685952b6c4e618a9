// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Sample SampleConfig `toml:"sample"`
	Label  LabelConfig  `toml:"label"`
}

// SampleConfig maps sampling-related settings.
type SampleConfig struct {
	PerCategory *int   `toml:"per-category"`
	Seed        *int64 `toml:"seed"`
}

// LabelConfig maps labeling-session settings.
type LabelConfig struct {
	Sample    *string `toml:"sample"`
	ExportDir *string `toml:"export-dir"`
	Coder     *string `toml:"coder"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
