package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vk/scriptassoc/internal/coordinator"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DBPath      string // sqlite project database
	EnginesPath string // engine manifest file or directory

	// Env holds KEY=VALUE overrides applied on top of EnvFile.
	Env       []string
	EnvFile   string
	OutputDir string

	HaltGrace   time.Duration
	ProgressURL string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, errors.New("DBPath is a required configuration field and cannot be empty")
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.HaltGrace < 0 {
		return nil, errors.New("halt grace period cannot be negative")
	}
	if cfg.HaltGrace == 0 {
		cfg.HaltGrace = coordinator.DefaultHaltGrace
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, nil
}

// ConfigError reports configuration that was accepted by NewConfig but
// turned out invalid once read: environment overrides and engine
// manifests.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }
