package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// BackendConfig holds connection settings for the triage backend
type BackendConfig struct {
	// URL is the base address of the backend REST API
	URL string `json:"url"`
	// Timeout is the per-request HTTP timeout (Go duration string)
	Timeout string `json:"timeout"`
}

// RefreshConfig controls the periodic refresh cycle
type RefreshConfig struct {
	// Interval between automatic refreshes (Go duration string)
	Interval string `json:"interval"`
}

// NotificationConfig controls the notification lifecycle clock
type NotificationConfig struct {
	EntryDelayMs int `json:"entry_delay_ms"`
	DisplayMs    int `json:"display_ms"`
	ExitMs       int `json:"exit_ms"`
}

// Config holds all configuration for the triage dashboard
type Config struct {
	Backend       BackendConfig      `json:"backend"`
	Refresh       RefreshConfig      `json:"refresh"`
	Notifications NotificationConfig `json:"notifications"`

	// Logging
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:5000/api",
			Timeout: "15s",
		},
		Refresh: RefreshConfig{
			Interval: "30s",
		},
		Notifications: NotificationConfig{
			EntryDelayMs: 100,
			DisplayMs:    4000,
			ExitMs:       300,
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from file, falling back to defaults for any
// field the file omits
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "triagetui", "config.json")
}

// DefaultLogDir returns the default log directory path
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "triagetui")
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetBackendTimeout returns the parsed per-request timeout
func (c *Config) GetBackendTimeout() time.Duration {
	if c.Backend.Timeout != "" {
		if d, err := time.ParseDuration(c.Backend.Timeout); err == nil {
			return d
		}
	}
	return 15 * time.Second
}

// GetRefreshInterval returns the parsed periodic refresh interval
func (c *Config) GetRefreshInterval() time.Duration {
	if c.Refresh.Interval != "" {
		if d, err := time.ParseDuration(c.Refresh.Interval); err == nil {
			return d
		}
	}
	return 30 * time.Second
}

// GetNotificationTimings returns the notification lifecycle durations
func (c *Config) GetNotificationTimings() (entry, display, exit time.Duration) {
	entry = 100 * time.Millisecond
	display = 4000 * time.Millisecond
	exit = 300 * time.Millisecond
	if c.Notifications.EntryDelayMs > 0 {
		entry = time.Duration(c.Notifications.EntryDelayMs) * time.Millisecond
	}
	if c.Notifications.DisplayMs > 0 {
		display = time.Duration(c.Notifications.DisplayMs) * time.Millisecond
	}
	if c.Notifications.ExitMs > 0 {
		exit = time.Duration(c.Notifications.ExitMs) * time.Millisecond
	}
	return entry, display, exit
}
