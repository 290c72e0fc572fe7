package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilo/empleo-radar/internal/scraper"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
}

// The parser stores OfferHidden for an ordinary listing card, so the
// enricher's retargeting must match it as well as the unavailable variants,
// or freshly scraped offers are never enriched.
func TestPendingDescriptionFilterCoversBothSentinels(t *testing.T) {
	clause, args := pendingDescriptionFilter()

	assert.Contains(t, clause, "description IS NULL")
	assert.Contains(t, clause, "description = ''")
	assert.Contains(t, clause, "description = $1")
	assert.Contains(t, clause, "description LIKE $2")

	require.Len(t, args, 2)
	assert.Equal(t, scraper.OfferHidden, args[0])
	assert.Equal(t, scraper.DescriptionUnavailable+"%", args[1])
}

func TestOfferType(t *testing.T) {
	offer := Offer{
		Title:     "Desarrollador Junior",
		Company:   "Acme",
		DetailURL: "https://example.com/ofertas/1",
		Source:    "computrabajo",
	}

	assert.Equal(t, "Desarrollador Junior", offer.Title)
	assert.Nil(t, offer.PublishedAt)
	assert.Nil(t, offer.Description)
}

func TestScrapeRunType(t *testing.T) {
	run := ScrapeRun{
		SearchTerm: "desarrollador",
		Status:     "running",
	}

	assert.Equal(t, "desarrollador", run.SearchTerm)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.FinishedAt)
}
