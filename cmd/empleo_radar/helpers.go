package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/camilo/empleo-radar/internal/analysis"
	"github.com/camilo/empleo-radar/internal/config"
	"github.com/camilo/empleo-radar/internal/pipeline"
	"github.com/camilo/empleo-radar/internal/scoring"
	"github.com/camilo/empleo-radar/internal/store"
)

// loadConfig reads the configuration, honoring the --config flag.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// newLogger builds a structured logger at the configured level.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore connects to PostgreSQL and makes sure the schema exists.
// Callers own the returned store and must Close it.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return st, nil
}

// buildOptions turns the configuration into run options, loading taxonomy
// and profile overrides when configured.
func buildOptions(cfg config.Config) (pipeline.Options, error) {
	tax := analysis.DefaultTaxonomy()
	if cfg.TaxonomyPath != "" {
		loaded, err := analysis.LoadTaxonomy(cfg.TaxonomyPath)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("failed to load taxonomy: %w", err)
		}
		tax = loaded
	}

	profile := scoring.DefaultProfile()
	if cfg.ProfilePath != "" {
		loaded, err := scoring.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = loaded
	}

	return pipeline.Options{
		BaseURL:          cfg.BaseURL,
		SearchTerms:      cfg.SearchTerms,
		Region:           cfg.Region,
		Source:           cfg.Source,
		MaxOffers:        cfg.MaxOffers,
		MaxPages:         cfg.MaxPages,
		RecencyThreshold: cfg.RecencyThreshold(),
		Blacklist:        cfg.Blacklist,
		RequireRemote:    cfg.RequireRemote,
		SkipEnrichment:   cfg.SkipEnrichment,
		Taxonomy:         tax,
		Profile:          profile,
	}, nil
}
