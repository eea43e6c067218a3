// Package config provides configuration helpers and TOML/YAML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Tally TallyConfig `toml:"tally" yaml:"tally"`
}

// TallyConfig maps tally-related settings.
type TallyConfig struct {
	Input    *string `toml:"input" yaml:"input"`
	Policy   *string `toml:"policy" yaml:"policy"`
	Format   *string `toml:"format" yaml:"format"`
	Template *string `toml:"template" yaml:"template"`
	Save     *bool   `toml:"save" yaml:"save"`
}

// LoadConfig reads a TOML or YAML config from the given path. Missing file is not an error.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}
