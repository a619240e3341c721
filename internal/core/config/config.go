// Package config handles configuration loading and validation for weekplan.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/weekplan/internal/core/styles"
)

// Remote drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// Config holds the application configuration.
type Config struct {
	Remote   RemoteConfig   `yaml:"remote"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Export   ExportConfig   `yaml:"export"`
	Display  DisplayConfig  `yaml:"display"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// RemoteConfig selects the authoritative store used while signed in.
type RemoteConfig struct {
	Driver  string        `yaml:"driver"`
	Timeout time.Duration `yaml:"timeout"` // bound on each background remote write
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// AuthConfig controls sign-in sessions.
type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl"` // zero keeps sessions until logout
}

// ExportConfig controls exported files.
type ExportConfig struct {
	Version string `yaml:"version"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			Driver:  DriverSQLite,
			Timeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Export: ExportConfig{
			Version: "2.0",
		},
		Display: DisplayConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Remote.Driver == "" {
		c.Remote.Driver = defaults.Remote.Driver
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = defaults.Remote.Timeout
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Export.Version == "" {
		c.Export.Version = defaults.Export.Version
	}
	if c.Display.Theme == "" {
		c.Display.Theme = defaults.Display.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Remote.Driver {
	case DriverSQLite, DriverMemory, DriverNone:
	default:
		return fmt.Errorf("remote.driver must be one of %s, %s, %s; got %q",
			DriverSQLite, DriverMemory, DriverNone, c.Remote.Driver)
	}

	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout cannot be negative")
	}

	if c.Auth.SessionTTL < 0 {
		return fmt.Errorf("auth.session_ttl cannot be negative")
	}

	if _, ok := styles.GetPalette(c.Display.Theme); !ok {
		return fmt.Errorf("display.theme %q is unknown, available: %s",
			c.Display.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	return nil
}

// RemoteEnabled reports whether a remote tier is configured.
func (c *Config) RemoteEnabled() bool {
	return c.Remote.Driver != DriverNone
}

// BusyTimeout returns the database busy timeout as a duration.
func (c *Config) BusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Millisecond
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "weekplan.log")
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "weekplan", "config.yaml")
}

// DefaultDataDir returns the data directory under the XDG data home.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "weekplan")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, fallback)
}
