package config

import (
	"os"
	"path/filepath"

	"github.com/skycli/skycli/internal/core/domain"
)

// Config is the skycli configuration.
type Config struct {
	// Service is the target service origin.
	Service string `koanf:"service"`

	// Output is the default output format (table, json).
	Output string `koanf:"output"`

	// Color enables colored terminal output.
	Color bool `koanf:"color"`

	// Log configures diagnostic logging.
	Log LogConfig `koanf:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Service: domain.DefaultService,
		Output:  "table",
		Color:   true,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Dir returns the per-user config directory. It also holds the
// encrypted session file.
func Dir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "skycli")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skycli")
}

// FilePath returns the config file path inside Dir.
func FilePath() string {
	return filepath.Join(Dir(), "config.yaml")
}
