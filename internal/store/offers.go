package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/camilo/empleo-radar/internal/scraper"
)

// ErrDuplicateOffer is returned by CreateOffer when the detail URL is
// already stored.
var ErrDuplicateOffer = errors.New("offer with this detail URL already exists")

// Offer is a persisted job posting. RawDatePhrase keeps the scraped
// relative-time text for audit even after PublishedAt is resolved.
type Offer struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Location      string     `json:"location"`
	RawDatePhrase string     `json:"raw_date_phrase"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	DetailURL     string     `json:"detail_url"`
	Description   *string    `json:"description,omitempty"`
	Source        string     `json:"source"`
	CreatedAt     time.Time  `json:"created_at"`
}

const offerColumns = `id, title, company, location, raw_date_phrase, published_at, detail_url, description, source, created_at`

func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	err := row.Scan(&o.ID, &o.Title, &o.Company, &o.Location, &o.RawDatePhrase,
		&o.PublishedAt, &o.DetailURL, &o.Description, &o.Source, &o.CreatedAt)
	return o, err
}

// UpsertOffer inserts an offer, silently skipping when the detail URL is
// already stored. Returns true when a new row was written.
func (s *Store) UpsertOffer(ctx context.Context, offer Offer) (bool, error) {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO offers (id, title, company, location, raw_date_phrase, published_at, detail_url, description, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (detail_url) DO NOTHING`,
		offer.ID, offer.Title, offer.Company, offer.Location, offer.RawDatePhrase,
		offer.PublishedAt, offer.DetailURL, offer.Description, offer.Source,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert offer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateOffer inserts an offer and fails on a duplicate detail URL. Used
// by the API where a silent skip would hide a caller mistake.
func (s *Store) CreateOffer(ctx context.Context, offer Offer) (Offer, error) {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if offer.Source == "" {
		offer.Source = "manual"
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO offers (id, title, company, location, raw_date_phrase, published_at, detail_url, description, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+offerColumns,
		offer.ID, offer.Title, offer.Company, offer.Location, offer.RawDatePhrase,
		offer.PublishedAt, offer.DetailURL, offer.Description, offer.Source,
	)
	created, err := scanOffer(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Offer{}, ErrDuplicateOffer
		}
		return Offer{}, fmt.Errorf("failed to create offer: %w", err)
	}
	return created, nil
}

// GetOffer retrieves one offer, or nil when it does not exist.
func (s *Store) GetOffer(ctx context.Context, id uuid.UUID) (*Offer, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	offer, err := scanOffer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

// OfferFilters holds optional filters for listing offers.
type OfferFilters struct {
	Source   string
	Location string
	Limit    int
}

// ListOffers retrieves offers, newest first.
func (s *Store) ListOffers(ctx context.Context, filters OfferFilters) ([]Offer, error) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT ` + offerColumns + ` FROM offers WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, filters.Source)
		argNum++
	}
	if filters.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argNum)
		args = append(args, "%"+filters.Location+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// pendingDescriptionFilter matches offers the enricher must revisit: no
// description at all, or one of the placeholder sentinels. OfferHidden is
// what the parser stores for an ordinary listing card, so it covers most
// freshly scraped rows; the LIKE catches the blocked-fetch variants
// ("Descripción no disponible (403)").
func pendingDescriptionFilter() (string, []any) {
	clause := `description IS NULL
		    OR description = ''
		    OR description = $1
		    OR description LIKE $2`
	return clause, []any{scraper.OfferHidden, scraper.DescriptionUnavailable + "%"}
}

// ListMissingDescriptions returns offers whose description is absent or a
// placeholder, oldest first so retries drain in scrape order.
func (s *Store) ListMissingDescriptions(ctx context.Context, limit int) ([]scraper.PendingOffer, error) {
	if limit <= 0 {
		limit = 500
	}
	clause, args := pendingDescriptionFilter()
	args = append(args, limit)
	rows, err := s.pool.Query(ctx,
		`SELECT id, detail_url FROM offers
		 WHERE `+clause+`
		 ORDER BY created_at ASC
		 LIMIT $3`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers missing descriptions: %w", err)
	}
	defer rows.Close()

	var pending []scraper.PendingOffer
	for rows.Next() {
		var p scraper.PendingOffer
		if err := rows.Scan(&p.ID, &p.DetailURL); err != nil {
			return nil, fmt.Errorf("failed to scan pending offer: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// UpdateDescription stores a fetched description for one offer.
func (s *Store) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE offers SET description = $1 WHERE id = $2`,
		description, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer not found: %s", id)
	}
	return nil
}

// CountOffers reports the total number of stored offers.
func (s *Store) CountOffers(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM offers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 is PostgreSQL's unique_violation code.
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
