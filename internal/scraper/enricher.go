package scraper

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/camilo/empleo-radar/internal/fetch"
)

// PendingOffer identifies a stored offer whose description is still a
// placeholder and needs a detail-page fetch.
type PendingOffer struct {
	ID        uuid.UUID
	DetailURL string
}

// DescriptionSaver persists an enriched description for one offer.
type DescriptionSaver interface {
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error
}

const (
	// checkpointEvery controls how often progress is logged as a checkpoint.
	checkpointEvery = 10
	// extraPauseEvery inserts an additional long rest into the detail walk.
	extraPauseEvery = 20
)

// Enricher fetches detail pages for offers missing their full description,
// under the conservative detail pacing profile.
type Enricher struct {
	client *fetch.Client
	log    *slog.Logger
	rng    *rand.Rand

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEnricher creates a detail-page enricher around the given client. The
// client should use the detail pacing profile.
func NewEnricher(client *fetch.Client, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		client: client,
		log:    logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// Enrich fetches each pending offer's detail page and saves the extracted
// description. Failed offers are skipped, not retried here; the next run
// targets them again since their description stays a placeholder. Returns
// the updated and failed counts.
func (e *Enricher) Enrich(ctx context.Context, pending []PendingOffer, saver DescriptionSaver) (int, int, error) {
	e.log.Info("starting description enrichment", "pending", len(pending))

	updated, failed := 0, 0
	for i, offer := range pending {
		if err := ctx.Err(); err != nil {
			return updated, failed, err
		}

		e.log.Info("fetching offer detail", "url", offer.DetailURL, "progress", i+1, "total", len(pending))
		description, ok := e.fetchDescription(ctx, offer.DetailURL)
		if !ok {
			failed++
			continue
		}

		if err := saver.UpdateDescription(ctx, offer.ID, description); err != nil {
			return updated, failed, err
		}
		updated++

		if updated%checkpointEvery == 0 {
			e.log.Info("enrichment checkpoint", "updated", updated, "failed", failed)
		}
		if (i+1)%extraPauseEvery == 0 {
			rest := 30*time.Second + time.Duration(e.rng.Int63n(int64(30*time.Second)))
			e.log.Info("extra rest between detail batches", "duration", rest)
			if err := e.sleep(ctx, rest); err != nil {
				return updated, failed, err
			}
		}
	}

	e.log.Info("enrichment finished", "updated", updated, "failed", failed, "requests", e.client.Requests())
	return updated, failed, nil
}

// fetchDescription retrieves one detail page and extracts its description.
// Soft-block exhaustion is recorded as a distinct placeholder so the row is
// retargeted later; other failures report not-ok.
func (e *Enricher) fetchDescription(ctx context.Context, url string) (string, bool) {
	doc, err := e.client.Document(ctx, url)
	if err != nil {
		if fetch.IsSoftBlock(err) {
			e.log.Warn("detail page soft-blocked", "url", url)
			return DescriptionUnavailable + " (403)", true
		}
		e.log.Warn("detail fetch failed", "url", url, "error", err)
		return "", false
	}

	description := ExtractDescription(doc)
	if description == "" {
		return "", false
	}
	if strings.Contains(strings.ToLower(description), "acceso denegado") {
		return DescriptionUnavailable + " (acceso denegado)", true
	}
	return description, true
}

// ExtractDescription pulls the long-form offer text out of a detail page,
// trying the known site selector first and degrading through progressively
// looser fallbacks.
func ExtractDescription(doc *goquery.Document) string {
	// Primary: the site's own description paragraphs.
	var parts []string
	doc.Find("p.mbB").Each(func(_ int, p *goquery.Selection) {
		if text := collapseSpaces(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	// Containers whose class or id mentions the description.
	if text := findByAttrContains(doc, "class", "descripcion"); text != "" {
		return text
	}
	if text := findByAttrContains(doc, "id", "descripcion"); text != "" {
		return text
	}

	// Any long paragraph.
	var long string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := collapseSpaces(p.Text()); len(text) > 120 {
			long = text
			return false
		}
		return true
	})
	if long != "" {
		return long
	}

	// Last resort: the page's main block.
	for _, selector := range []string{"main", "article"} {
		if text := collapseSpaces(doc.Find(selector).First().Text()); len(text) > 80 {
			return text
		}
	}
	return ""
}

// findByAttrContains returns the text of the first div or section whose
// given attribute value contains the marker, case-folded.
func findByAttrContains(doc *goquery.Document, attr, marker string) string {
	var found string
	doc.Find("div, section").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		value, ok := sel.Attr(attr)
		if !ok || !strings.Contains(strings.ToLower(value), marker) {
			return true
		}
		if text := collapseSpaces(sel.Text()); text != "" {
			found = text
			return false
		}
		return true
	})
	return found
}
