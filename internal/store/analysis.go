package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/camilo/empleo-radar/internal/analysis"
)

// AnalysisResult is the derived record for one offer: extracted stack,
// detected work mode, seniority signal, and compatibility score. One row
// per offer; re-analysis overwrites in place.
type AnalysisResult struct {
	ID              uuid.UUID              `json:"id"`
	OfferID         uuid.UUID              `json:"offer_id"`
	Stack           analysis.StackFindings `json:"stack"`
	WorkMode        string                 `json:"work_mode"`
	LevelScore      int                    `json:"level_score"`
	LevelLabel      string                 `json:"level_label"`
	Compatibility   float64                `json:"compatibility"`
	TaxonomyVersion string                 `json:"taxonomy_version"`
	ComputedAt      time.Time              `json:"computed_at"`
}

// UpsertAnalysis writes the analysis for an offer, replacing any previous
// result so the stage stays idempotent over an unchanged corpus.
func (s *Store) UpsertAnalysis(ctx context.Context, result AnalysisResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	stackJSON, err := json.Marshal(result.Stack)
	if err != nil {
		return fmt.Errorf("failed to marshal stack: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analysis_results (id, offer_id, stack, work_mode, level_score, level_label, compatibility, taxonomy_version, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (offer_id) DO UPDATE SET
			stack = EXCLUDED.stack,
			work_mode = EXCLUDED.work_mode,
			level_score = EXCLUDED.level_score,
			level_label = EXCLUDED.level_label,
			compatibility = EXCLUDED.compatibility,
			taxonomy_version = EXCLUDED.taxonomy_version,
			computed_at = NOW()`,
		result.ID, result.OfferID, stackJSON, result.WorkMode, result.LevelScore,
		result.LevelLabel, result.Compatibility, result.TaxonomyVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves the analysis for one offer, or nil when the offer
// has not been analyzed.
func (s *Store) GetAnalysis(ctx context.Context, offerID uuid.UUID) (*AnalysisResult, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, offer_id, stack, work_mode, level_score, level_label, compatibility, taxonomy_version, computed_at
		 FROM analysis_results WHERE offer_id = $1`,
		offerID,
	)
	result, err := scanAnalysis(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &result, nil
}

// ListAnalyses retrieves analysis results ordered by compatibility,
// best matches first.
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]AnalysisResult, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, offer_id, stack, work_mode, level_score, level_label, compatibility, taxonomy_version, computed_at
		 FROM analysis_results ORDER BY compatibility DESC, computed_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var results []AnalysisResult
	for rows.Next() {
		result, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

// RankedOffer joins an offer with its analysis for reporting.
type RankedOffer struct {
	Offer    Offer          `json:"offer"`
	Analysis AnalysisResult `json:"analysis"`
}

// TopOffers returns the best-matching analyzed offers with their offer
// records attached.
func (s *Store) TopOffers(ctx context.Context, limit int) ([]RankedOffer, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+prefixedOfferColumns("o")+`,
		        a.id, a.offer_id, a.stack, a.work_mode, a.level_score, a.level_label, a.compatibility, a.taxonomy_version, a.computed_at
		 FROM analysis_results a
		 JOIN offers o ON o.id = a.offer_id
		 ORDER BY a.compatibility DESC, a.computed_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list top offers: %w", err)
	}
	defer rows.Close()

	var ranked []RankedOffer
	for rows.Next() {
		var r RankedOffer
		var stackJSON []byte
		err := rows.Scan(
			&r.Offer.ID, &r.Offer.Title, &r.Offer.Company, &r.Offer.Location,
			&r.Offer.RawDatePhrase, &r.Offer.PublishedAt, &r.Offer.DetailURL,
			&r.Offer.Description, &r.Offer.Source, &r.Offer.CreatedAt,
			&r.Analysis.ID, &r.Analysis.OfferID, &stackJSON, &r.Analysis.WorkMode,
			&r.Analysis.LevelScore, &r.Analysis.LevelLabel, &r.Analysis.Compatibility,
			&r.Analysis.TaxonomyVersion, &r.Analysis.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranked offer: %w", err)
		}
		if err := json.Unmarshal(stackJSON, &r.Analysis.Stack); err != nil {
			return nil, fmt.Errorf("failed to parse stored stack: %w", err)
		}
		ranked = append(ranked, r)
	}
	return ranked, nil
}

// AnalyzableOffer is the slice of an offer the analysis stage consumes.
type AnalyzableOffer struct {
	ID          uuid.UUID
	Title       string
	Location    string
	Description string
}

// ListAnalyzableOffers returns every stored offer with the text fields the
// extraction and scoring stages read. Offers without a usable description
// still come back; analysis runs on whatever text exists.
func (s *Store) ListAnalyzableOffers(ctx context.Context) ([]AnalyzableOffer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, location, COALESCE(description, '') FROM offers ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyzable offers: %w", err)
	}
	defer rows.Close()

	var offers []AnalyzableOffer
	for rows.Next() {
		var o AnalyzableOffer
		if err := rows.Scan(&o.ID, &o.Title, &o.Location, &o.Description); err != nil {
			return nil, fmt.Errorf("failed to scan analyzable offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, nil
}

func scanAnalysis(row pgx.Row) (AnalysisResult, error) {
	var result AnalysisResult
	var stackJSON []byte
	err := row.Scan(&result.ID, &result.OfferID, &stackJSON, &result.WorkMode,
		&result.LevelScore, &result.LevelLabel, &result.Compatibility,
		&result.TaxonomyVersion, &result.ComputedAt)
	if err != nil {
		return AnalysisResult{}, err
	}
	if err := json.Unmarshal(stackJSON, &result.Stack); err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to parse stored stack: %w", err)
	}
	return result, nil
}

func prefixedOfferColumns(alias string) string {
	return alias + `.id, ` + alias + `.title, ` + alias + `.company, ` + alias + `.location, ` +
		alias + `.raw_date_phrase, ` + alias + `.published_at, ` + alias + `.detail_url, ` +
		alias + `.description, ` + alias + `.source, ` + alias + `.created_at`
}
