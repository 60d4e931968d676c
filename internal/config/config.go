package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mediashelf/media-tidy/internal/core"
)

// Config holds user settings for media-tidy.
type Config struct {
	// CatalogPath is the JSON catalog file location.
	CatalogPath string `json:"catalog_path"`

	// DerivativeMarkers are the edit-operation keywords used to classify
	// derivative files. Order matters for prefix extraction.
	DerivativeMarkers []string `json:"derivative_markers"`

	EnableLogging    bool `json:"enable_logging"`
	LogRetentionDays int  `json:"log_retention_days"`

	// TMDB prefill settings used by the scan command.
	TMDBAPIKey       string `json:"tmdb_api_key"`
	EnableTMDBLookup bool   `json:"enable_tmdb_lookup"`
	TMDBLanguage     string `json:"tmdb_language"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:       "", // resolved relative to the config dir when empty
		DerivativeMarkers: append([]string(nil), core.DefaultMarkers...),
		EnableLogging:     true,
		LogRetentionDays:  30,
		TMDBAPIKey:        "",
		EnableTMDBLookup:  false,
		TMDBLanguage:      "en-US",
	}
}

// Dir returns the media-tidy settings directory.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".media-tidy"), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk, filling missing fields with
// defaults. A missing file returns the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaults := DefaultConfig()
	if len(cfg.DerivativeMarkers) == 0 {
		cfg.DerivativeMarkers = defaults.DerivativeMarkers
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	return &cfg, nil
}

// Save writes the configuration to disk.
func (cfg *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolveCatalogPath returns the configured catalog path, defaulting to
// catalog.json next to the config file.
func (cfg *Config) ResolveCatalogPath() (string, error) {
	if cfg.CatalogPath != "" {
		return cfg.CatalogPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.json"), nil
}

// Classifier builds the derivative classifier from the configured markers.
func (cfg *Config) Classifier() *core.DerivativeClassifier {
	return core.NewDerivativeClassifier(cfg.DerivativeMarkers...)
}
