package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cargaona/dmx/internal/shared"
)

const (
	DefaultQuality     = "320"
	DefaultSearchLimit = 20
	DefaultCacheTTL    = 3600 // seconds
	MinSearchLimit     = 1
	MaxSearchLimit     = 100
)

// Config holds all persisted settings. It is read once at session start;
// the interactive session never reloads it.
type Config struct {
	ARL                   string `json:"arl"`
	Quality               string `json:"quality"`
	OutputDir             string `json:"output"`
	SearchLimit           int    `json:"search_limit"`
	Debug                 bool   `json:"debug"`
	CacheTTLSeconds       int    `json:"cache_ttl"`
	BatchConfirmThreshold int    `json:"batch_confirm_threshold"`

	configDir string
}

// DefaultConfigDir returns ~/.config/dmx.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".dmx")
	}
	return filepath.Join(home, ".config", "dmx")
}

func defaultConfig(configDir string) *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Quality:               DefaultQuality,
		OutputDir:             filepath.Join(home, "Downloads", "Music"),
		SearchLimit:           DefaultSearchLimit,
		CacheTTLSeconds:       DefaultCacheTTL,
		BatchConfirmThreshold: 5,
		configDir:             configDir,
	}
}

// Load reads the config file under configDir, merging it over defaults so
// new keys always have values. A missing or unreadable file yields the
// defaults.
func Load(configDir string) *Config {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	cfg := defaultConfig(configDir)

	data, err := os.ReadFile(cfg.FilePath())
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return defaultConfig(configDir)
	}
	cfg.configDir = configDir
	return cfg
}

// Save writes the configuration to its JSON file, creating the config
// directory if needed.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := shared.CreateDirIfNotExists(c.configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.FilePath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigDir returns the directory holding the config file and cache.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// FilePath returns the path of the config file.
func (c *Config) FilePath() string {
	return filepath.Join(c.configDir, "config.json")
}

// CacheDir returns the directory used by the cached fetcher.
func (c *Config) CacheDir() string {
	return filepath.Join(c.configDir, "cache")
}

// Validate checks the quality tier and search limit bounds.
func (c *Config) Validate() error {
	if !shared.IsValidQuality(c.Quality) {
		return &shared.ConfigError{Message: fmt.Sprintf("invalid quality %q (supported: 128, 320, FLAC)", c.Quality)}
	}
	if c.SearchLimit < MinSearchLimit || c.SearchLimit > MaxSearchLimit {
		return &shared.ConfigError{Message: fmt.Sprintf("search limit must be between %d and %d", MinSearchLimit, MaxSearchLimit)}
	}
	if c.OutputDir == "" {
		return &shared.ConfigError{Message: "output directory is required"}
	}
	return nil
}

// Set updates a configuration key by its user-facing name. Used by the
// `config set` command.
func (c *Config) Set(key, value string) error {
	switch key {
	case "arl":
		c.ARL = value
	case "quality":
		if !shared.IsValidQuality(value) {
			return &shared.ConfigError{Message: fmt.Sprintf("invalid quality %q (supported: 128, 320, FLAC)", value)}
		}
		c.Quality = value
	case "output":
		if value == "" {
			return &shared.ConfigError{Message: "output directory cannot be empty"}
		}
		c.OutputDir = value
	case "search_limit":
		var limit int
		if _, err := fmt.Sscanf(value, "%d", &limit); err != nil {
			return &shared.ConfigError{Message: "search limit must be a number"}
		}
		if limit < MinSearchLimit || limit > MaxSearchLimit {
			return &shared.ConfigError{Message: fmt.Sprintf("search limit must be between %d and %d", MinSearchLimit, MaxSearchLimit)}
		}
		c.SearchLimit = limit
	default:
		return &shared.ConfigError{Message: fmt.Sprintf("unknown configuration key %q (available: arl, quality, output, search_limit)", key)}
	}
	return nil
}
