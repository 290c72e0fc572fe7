// Package config provides configuration loading and validation for the
// harvester. Values come from defaults, an optional JSON file, and
// environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full configuration surface. The core stages receive these
// values through pipeline options; nothing in them is hard-coded.
type Config struct {
	// Harvest target
	BaseURL     string   `json:"base_url" validate:"required,url"`
	Source      string   `json:"source" validate:"required"`
	SearchTerms []string `json:"search_terms" validate:"min=1,dive,required"`
	Region      string   `json:"region" validate:"required"`

	// Run ceilings
	MaxOffers int `json:"max_offers" validate:"gt=0"`
	MaxPages  int `json:"max_pages" validate:"gt=0"`

	// Filtering
	RecencyThresholdHours int      `json:"recency_threshold_hours" validate:"gt=0"`
	Blacklist             []string `json:"blacklist"`
	RequireRemote         bool     `json:"require_remote"`

	// Behavior
	SkipEnrichment bool   `json:"skip_enrichment"`
	LogLevel       string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// Infrastructure
	DatabaseURL string `json:"database_url"`
	ListenAddr  string `json:"listen_addr" validate:"required"`

	// Optional resource overrides
	TaxonomyPath string `json:"taxonomy_path,omitempty"`
	ProfilePath  string `json:"profile_path,omitempty"`
}

// Default returns the built-in configuration. The recency threshold
// deliberately has one source of truth here: 72 hours.
func Default() Config {
	return Config{
		BaseURL: "https://www.computrabajo.com.co",
		Source:  "computrabajo",
		SearchTerms: []string{
			"desarrollador-de-software",
			"desarrollador-web",
			"desarrollador-fullstack",
			"desarrollador-frontend",
		},
		Region:                "antioquia",
		MaxOffers:             500,
		MaxPages:              30,
		RecencyThresholdHours: 72,
		Blacklist:             []string{"bairesdev"},
		LogLevel:              "info",
		ListenAddr:            ":8080",
	}
}

// Load builds the configuration: defaults, overlaid with an optional JSON
// file, overlaid with environment variables, then validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return Config{}, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RECENCY_THRESHOLD_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.RecencyThresholdHours = hours
		}
	}
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// RecencyThreshold returns the freshness cutoff as a duration.
func (c Config) RecencyThreshold() time.Duration {
	return time.Duration(c.RecencyThresholdHours) * time.Hour
}
