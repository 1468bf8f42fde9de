// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig    `toml:"practice"`
	Keymap   map[string]string `toml:"keymap"`
	Log      LogConfig         `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Layout     *string `toml:"layout"`
	ContentDir *string `toml:"content-dir"`
	Watch      *bool   `toml:"watch"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	for from, to := range cfg.Keymap {
		if len([]rune(from)) != 1 || to == "" {
			return FileConfig{}, fmt.Errorf("invalid keymap entry %q = %q", from, to)
		}
	}
	return cfg, nil
}
