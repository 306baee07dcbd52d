package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML settings file. Everything has a usable
// default; credentials live in the .env chain, not here.
type Settings struct {
	API      APISettings      `yaml:"api"`
	Rounding RoundingSettings `yaml:"rounding"`
	Journal  JournalSettings  `yaml:"journal"`
	Session  SessionSettings  `yaml:"session"`
}

type APISettings struct {
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout string `yaml:"timeout"`
}

// ParseTimeout converts the timeout string to a time.Duration.
func (a APISettings) ParseTimeout() (time.Duration, error) {
	if a.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(a.Timeout)
}

type RoundingSettings struct {
	// Increment is the brokerage's minimum tradable unit in shares.
	// "1" for whole-share brokerages, e.g. "0.0001" for fractional.
	Increment string `yaml:"increment"`
}

// ParseIncrement converts the increment string to a decimal.
func (r RoundingSettings) ParseIncrement() (decimal.Decimal, error) {
	if r.Increment == "" {
		return decimal.NewFromInt(1), nil
	}
	inc, err := decimal.NewFromString(r.Increment)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse rounding.increment: %w", err)
	}
	return inc, nil
}

type JournalSettings struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path,omitempty"`
}

type SessionSettings struct {
	CachePath string `yaml:"cache_path,omitempty"`
}

// DefaultSettingsPath is ~/.config/rob/config.yaml.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rob", "config.yaml")
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() *Settings {
	var dbPath, cachePath string
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".config", "rob", "runs.db")
		cachePath = filepath.Join(home, ".config", "rob", "session.json")
	}
	return &Settings{
		API:      APISettings{Timeout: "30s"},
		Rounding: RoundingSettings{Increment: "1"},
		Journal:  JournalSettings{Enabled: true, DBPath: dbPath},
		Session:  SessionSettings{CachePath: cachePath},
	}
}

// LoadSettings reads a settings file. A missing file is not an error:
// defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = DefaultSettingsPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// SaveToFile writes the settings as YAML.
func (s *Settings) SaveToFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if _, err := s.API.ParseTimeout(); err != nil {
		return fmt.Errorf("api.timeout: %w", err)
	}
	inc, err := s.Rounding.ParseIncrement()
	if err != nil {
		return err
	}
	if !inc.IsPositive() {
		return fmt.Errorf("rounding.increment must be positive, got %s", inc)
	}
	if s.Journal.Enabled && s.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required when journal is enabled")
	}
	return nil
}
