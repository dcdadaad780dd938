package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds simulation settings. Values not present in the file keep
// their defaults.
type Config struct {
	// Seed drives the shared RNG stream. Runs with the same seed and the
	// same plugin registration order reproduce the same event sequence.
	Seed int64 `yaml:"seed"`

	// Steps is the number of simulated days RunFor advances by default.
	Steps int `yaml:"steps"`

	// DatabasePath locates the SQLite file the recorder writes to.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogEvents enables structured logging of every executed life event.
	LogEvents bool `yaml:"log_events"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		Steps:        336,
		DatabasePath: "data/storyworld.db",
		LogLevel:     "info",
		LogEvents:    true,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
