// Package config loads the timerctl configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/multitimer/multitimer-go/pkg/store"
)

// Validation errors.
var (
	ErrInvalidStore    = errors.New("invalid store kind")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidBudget   = errors.New("invalid background budget")
	ErrDataDirRequired = errors.New("data directory required")
)

// Config holds the timerctl settings.
type Config struct {
	// DataDir holds persisted timers.
	DataDir string `yaml:"data_dir"`

	// Store is the backend kind: memory, json or sqlite.
	Store string `yaml:"store"`

	// SoundsDir holds <name>.mp3 files. Empty plays nothing audible.
	SoundsDir string `yaml:"sounds_dir"`

	// SoundManifest lists the catalog. Empty uses the built-in sounds.
	SoundManifest string `yaml:"sound_manifest"`

	// DefaultSound is the alarm sound of new timers.
	DefaultSound string `yaml:"default_sound"`

	// EventLog is a .tlog file receiving timer events. Empty disables it.
	EventLog string `yaml:"event_log"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr"`

	// BackgroundBudget is the length of a background extension.
	BackgroundBudget time.Duration `yaml:"background_budget"`

	// PermissionGranted answers the notification permission prompt.
	PermissionGranted bool `yaml:"permission_granted"`
}

// Default returns the built-in configuration.
func Default() Config {
	dataDir := ".multitimer"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".multitimer")
	}
	return Config{
		DataDir:           dataDir,
		Store:             store.KindJSON,
		DefaultSound:      "alarm",
		LogLevel:          "info",
		BackgroundBudget:  30 * time.Second,
		PermissionGranted: true,
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case store.KindMemory:
	case store.KindJSON, store.KindSQLite:
		if c.DataDir == "" {
			errs = append(errs, fmt.Errorf("%w for %s store", ErrDataDirRequired, c.Store))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStore, c.Store))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.BackgroundBudget < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidBudget, c.BackgroundBudget))
	}

	return errors.Join(errs...)
}

// Level returns the slog level for LogLevel, or info if it is invalid.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps a log level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q (must be debug, info, warn, or error)", ErrInvalidLogLevel, s)
	}
}
