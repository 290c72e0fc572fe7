package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScrapeRun is the persisted record of one harvest run.
type ScrapeRun struct {
	ID          uuid.UUID  `json:"id"`
	SearchTerm  string     `json:"search_term"`
	Status      string     `json:"status"`
	OffersFound int        `json:"offers_found"`
	OffersKept  int        `json:"offers_kept"`
	LastError   string     `json:"last_error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// CreateScrapeRun records the start of a run and returns its ID.
func (s *Store) CreateScrapeRun(ctx context.Context, searchTerm string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_runs (id, search_term, status) VALUES ($1, $2, 'running')`,
		id, searchTerm,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create scrape run: %w", err)
	}
	return id, nil
}

// FinishScrapeRun closes a run record with its final status and counters.
func (s *Store) FinishScrapeRun(ctx context.Context, id uuid.UUID, status string, found, kept int, lastError string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE scrape_runs
		 SET status = $1, offers_found = $2, offers_kept = $3, last_error = $4, finished_at = NOW()
		 WHERE id = $5`,
		status, found, kept, lastError, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish scrape run: %w", err)
	}
	return nil
}

// ListScrapeRuns retrieves recent runs, newest first.
func (s *Store) ListScrapeRuns(ctx context.Context, limit int) ([]ScrapeRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, search_term, status, offers_found, offers_kept, last_error, started_at, finished_at
		 FROM scrape_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape runs: %w", err)
	}
	defer rows.Close()

	var runs []ScrapeRun
	for rows.Next() {
		var run ScrapeRun
		if err := rows.Scan(&run.ID, &run.SearchTerm, &run.Status, &run.OffersFound,
			&run.OffersKept, &run.LastError, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scrape run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetScrapeRun retrieves one run, or nil when it does not exist.
func (s *Store) GetScrapeRun(ctx context.Context, id uuid.UUID) (*ScrapeRun, error) {
	var run ScrapeRun
	err := s.pool.QueryRow(ctx,
		`SELECT id, search_term, status, offers_found, offers_kept, last_error, started_at, finished_at
		 FROM scrape_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.SearchTerm, &run.Status, &run.OffersFound,
		&run.OffersKept, &run.LastError, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scrape run: %w", err)
	}
	return &run, nil
}
