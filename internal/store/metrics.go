package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/camilo/empleo-radar/internal/metrics"
)

// Metric kinds in the metric_counts table.
const (
	metricKindTechnology = "technology"
	metricKindLocation   = "location"
	metricKindWorkMode   = "work_mode"
)

// ListMetricsInputs returns the analyzed corpus in the shape the metrics
// aggregator consumes.
func (s *Store) ListMetricsInputs(ctx context.Context) ([]metrics.Input, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.stack, o.location, a.work_mode, a.compatibility
		 FROM analysis_results a
		 JOIN offers o ON o.id = a.offer_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics inputs: %w", err)
	}
	defer rows.Close()

	var inputs []metrics.Input
	for rows.Next() {
		var in metrics.Input
		var stackJSON []byte
		if err := rows.Scan(&stackJSON, &in.Location, &in.WorkMode, &in.Compatibility); err != nil {
			return nil, fmt.Errorf("failed to scan metrics input: %w", err)
		}
		if err := json.Unmarshal(stackJSON, &in.Stack); err != nil {
			return nil, fmt.Errorf("failed to parse stored stack: %w", err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// SaveMetricsSnapshot replaces the stored metrics with a fresh snapshot.
// Delete and insert run in one transaction so readers never observe a
// half-written snapshot.
func (s *Store) SaveMetricsSnapshot(ctx context.Context, snap metrics.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin metrics transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM metric_counts`); err != nil {
		return fmt.Errorf("failed to clear metric counts: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM metric_totals`); err != nil {
		return fmt.Errorf("failed to clear metric totals: %w", err)
	}

	insert := func(kind, name, category string, frequency int, percentage float64) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO metric_counts (kind, name, category, frequency, percentage)
			 VALUES ($1, $2, $3, $4, $5)`,
			kind, name, category, frequency, percentage,
		)
		return err
	}

	for _, tc := range snap.Technologies {
		if err := insert(metricKindTechnology, tc.Name, tc.Category, tc.Frequency, tc.Percentage); err != nil {
			return fmt.Errorf("failed to save technology metric: %w", err)
		}
	}
	for _, lc := range snap.Locations {
		if err := insert(metricKindLocation, lc.Name, "", lc.Frequency, lc.Percentage); err != nil {
			return fmt.Errorf("failed to save location metric: %w", err)
		}
	}
	for _, mc := range snap.WorkModes {
		if err := insert(metricKindWorkMode, mc.Name, "", mc.Frequency, mc.Percentage); err != nil {
			return fmt.Errorf("failed to save work mode metric: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO metric_totals (id, total_offers, analyzed_offers, mean_compatibility, computed_at)
		 VALUES (1, $1, $2, $3, $4)`,
		snap.TotalOffers, snap.AnalyzedOffers, snap.MeanCompatibility, snap.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save metric totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit metrics snapshot: %w", err)
	}
	return nil
}

// LoadMetricsSnapshot reads the stored snapshot, or nil when metrics have
// never been computed.
func (s *Store) LoadMetricsSnapshot(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT total_offers, analyzed_offers, mean_compatibility, computed_at FROM metric_totals WHERE id = 1`,
	).Scan(&snap.TotalOffers, &snap.AnalyzedOffers, &snap.MeanCompatibility, &snap.ComputedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load metric totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT kind, name, category, frequency, percentage
		 FROM metric_counts ORDER BY frequency DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, name, category string
		var frequency int
		var pct float64
		if err := rows.Scan(&kind, &name, &category, &frequency, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan metric count: %w", err)
		}
		switch kind {
		case metricKindTechnology:
			snap.Technologies = append(snap.Technologies, metrics.TechCount{
				Name: name, Category: category, Frequency: frequency, Percentage: pct,
			})
		case metricKindLocation:
			snap.Locations = append(snap.Locations, metrics.LabelCount{
				Name: name, Frequency: frequency, Percentage: pct,
			})
		case metricKindWorkMode:
			snap.WorkModes = append(snap.WorkModes, metrics.LabelCount{
				Name: name, Frequency: frequency, Percentage: pct,
			})
		}
	}
	return &snap, nil
}
