// Package config loads servodrive settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "servodrive.yaml"

// Config holds the user-tunable settings. Serial line parameters are fixed
// and not part of it.
type Config struct {
	Port        string        `yaml:"port" env:"SERVODRIVE_PORT"`
	SettleDelay time.Duration `yaml:"settle_delay" env:"SERVODRIVE_SETTLE_DELAY"`
	Journal     string        `yaml:"journal" env:"SERVODRIVE_JOURNAL"`
	LogLevel    string        `yaml:"log_level" env:"SERVODRIVE_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SettleDelay: 100 * time.Millisecond,
		LogLevel:    "info",
	}
}

// Load reads path on top of the defaults and then applies environment
// overrides. An empty path means DefaultConfigFile, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings. A port is required unless simulate is set.
func (c *Config) Validate(simulate bool) error {
	if c.Port == "" && !simulate {
		return errors.New("no serial port configured (set port, SERVODRIVE_PORT or --port)")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay %s is negative", c.SettleDelay)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
