// Package store provides PostgreSQL persistence for offers, analysis
// results, metric snapshots, and harvest-run records.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables the pipeline needs if they are missing.
// Idempotent, safe to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS offers (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL DEFAULT 'N/A',
			location TEXT NOT NULL DEFAULT 'N/A',
			raw_date_phrase TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ,
			detail_url TEXT NOT NULL UNIQUE,
			description TEXT,
			source TEXT NOT NULL DEFAULT 'computrabajo',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_results (
			id UUID PRIMARY KEY,
			offer_id UUID NOT NULL UNIQUE REFERENCES offers(id) ON DELETE CASCADE,
			stack JSONB NOT NULL,
			work_mode TEXT NOT NULL DEFAULT '',
			level_score INTEGER NOT NULL DEFAULT 0,
			level_label TEXT NOT NULL DEFAULT '',
			compatibility DOUBLE PRECISION NOT NULL DEFAULT 0,
			taxonomy_version TEXT NOT NULL DEFAULT '',
			computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS metric_counts (
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			frequency INTEGER NOT NULL,
			percentage DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (kind, name)
		)`,
		`CREATE TABLE IF NOT EXISTS metric_totals (
			id INTEGER PRIMARY KEY DEFAULT 1,
			total_offers INTEGER NOT NULL,
			analyzed_offers INTEGER NOT NULL,
			mean_compatibility DOUBLE PRECISION NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS scrape_runs (
			id UUID PRIMARY KEY,
			search_term TEXT NOT NULL,
			status TEXT NOT NULL,
			offers_found INTEGER NOT NULL DEFAULT 0,
			offers_kept INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
