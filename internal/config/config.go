// internal/config/config.go
//
// This package handles configuration and the .onramp directory structure.
// Every machine that runs the widget gets a .onramp/ folder holding the
// config file, logs, and the persisted session snapshot.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// OnrampDir is the name of the directory created under the base dir.
	OnrampDir = ".onramp"

	defaultAPIBaseURL = "https://api-stg.transak.com/api/v2"
	defaultKYBBaseURL = "http://localhost:8090"
	defaultEnv        = "STAGING"

	defaultRefreshInterval = 9 * time.Minute
	defaultQuoteDebounce   = 500 * time.Millisecond
)

const defaultConfigYAML = `# onramp widget configuration
version: 1

environment: STAGING

api:
  base_url: https://api-stg.transak.com/api/v2
  key: ""

# Partner identity used when creating the KYB document.
partner_user_id: ""

kyb:
  base_url: http://localhost:8090

session:
  refresh_interval: 9m
  quote_debounce: 500ms
`

// APIConfig points the gateway at the external compliance/quote API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
}

// KYBConfig points the widget at the KYB document server.
type KYBConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SessionConfig tunes the session lifecycle timers.
type SessionConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
	QuoteDebounce   string `yaml:"quote_debounce"`

	refreshInterval time.Duration
	quoteDebounce   time.Duration
}

// FileConfig models .onramp/config.yaml.
type FileConfig struct {
	Version       int           `yaml:"version"`
	Environment   string        `yaml:"environment"`
	API           APIConfig     `yaml:"api"`
	PartnerUserID string        `yaml:"partner_user_id"`
	KYB           KYBConfig     `yaml:"kyb"`
	Session       SessionConfig `yaml:"session"`
}

// Config holds the runtime configuration for the widget.
type Config struct {
	// BaseDir is the directory the widget was launched from.
	BaseDir string

	// OnrampHome is BaseDir/.onramp.
	OnrampHome string

	File FileConfig
}

// InitOnrampDir creates the .onramp directory structure in the given base
// directory and seeds a default config file when none exists.
func InitOnrampDir(baseDir string) error {
	home := filepath.Join(baseDir, OnrampDir)
	dirs := []string{
		filepath.Join(home, "logs"),
		filepath.Join(home, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(home, "config.yaml"))
}

// New loads configuration for the given base directory, creating the
// .onramp structure when needed.
func New(baseDir string) (*Config, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("config: base dir is required")
	}
	if err := InitOnrampDir(baseDir); err != nil {
		return nil, fmt.Errorf("config: init onramp dir: %w", err)
	}
	cfg := &Config{
		BaseDir:    baseDir,
		OnrampHome: filepath.Join(baseDir, OnrampDir),
		File:       defaultFileConfig(),
	}
	if err := cfg.loadFileConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.OnrampHome, "config.yaml")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.OnrampHome, "logs")
}

// StateDir returns the path to the persisted session state directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.OnrampHome, "state")
}

// SnapshotPath returns the file that holds the sanitized session snapshot.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.StateDir(), "widget-state.json")
}

// TokenCachePath returns the file backing the short-lived token cache.
func (c *Config) TokenCachePath() string {
	return filepath.Join(c.StateDir(), "session-token")
}

// LogPath returns the widget log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "onramp.log")
}

// RefreshInterval returns the token refresh cadence.
func (c *Config) RefreshInterval() time.Duration {
	return c.File.Session.refreshInterval
}

// QuoteDebounce returns the quiet period before a quote fetch.
func (c *Config) QuoteDebounce() time.Duration {
	return c.File.Session.quoteDebounce
}

func (c *Config) loadFileConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	fc := FileConfig{
		Version:     1,
		Environment: defaultEnv,
		API:         APIConfig{BaseURL: defaultAPIBaseURL},
		KYB:         KYBConfig{BaseURL: defaultKYBBaseURL},
	}
	fc.Session.refreshInterval = defaultRefreshInterval
	fc.Session.quoteDebounce = defaultQuoteDebounce
	return fc
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.Environment) == "" {
		fc.Environment = defaultEnv
	}
	if strings.TrimSpace(fc.API.BaseURL) == "" {
		fc.API.BaseURL = defaultAPIBaseURL
	}
	if strings.TrimSpace(fc.KYB.BaseURL) == "" {
		fc.KYB.BaseURL = defaultKYBBaseURL
	}
}

func (fc *FileConfig) normalize() {
	fc.Environment = strings.ToUpper(strings.TrimSpace(fc.Environment))
	fc.API.BaseURL = strings.TrimRight(strings.TrimSpace(fc.API.BaseURL), "/")
	fc.API.Key = strings.TrimSpace(fc.API.Key)
	fc.PartnerUserID = strings.TrimSpace(fc.PartnerUserID)
	fc.KYB.BaseURL = strings.TrimRight(strings.TrimSpace(fc.KYB.BaseURL), "/")
	fc.Session.refreshInterval = parseDurationOr(fc.Session.RefreshInterval, defaultRefreshInterval)
	fc.Session.quoteDebounce = parseDurationOr(fc.Session.QuoteDebounce, defaultQuoteDebounce)
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if fc.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if fc.KYB.BaseURL == "" {
		return fmt.Errorf("kyb.base_url is required")
	}
	if fc.Session.refreshInterval <= 0 {
		return fmt.Errorf("session.refresh_interval must be positive")
	}
	if fc.Session.quoteDebounce <= 0 {
		return fmt.Errorf("session.quote_debounce must be positive")
	}
	return nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return fallback
	}
	return d
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
