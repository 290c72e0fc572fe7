package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/camilo/empleo-radar/internal/fetch"
)

// nextTextMarkers match the visible text of a next-page link when no
// explicit rel="next" anchor exists.
var nextTextMarkers = []string{"siguiente", "sig.", "next"}

// NextPageURL discovers the next page reference in a listing page,
// preferring an explicit next relation and falling back to link-text
// matching. Returns "" when no next page exists.
func NextPageURL(doc *goquery.Document, baseURL string) string {
	if href, ok := doc.Find(`a[rel="next"]`).First().Attr("href"); ok && href != "" {
		return resolveURL(baseURL, href)
	}

	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(collapseSpaces(a.Text()))
		for _, marker := range nextTextMarkers {
			if strings.Contains(text, marker) {
				if href, ok := a.Attr("href"); ok && href != "" {
					next = resolveURL(baseURL, href)
					return false
				}
			}
		}
		return true
	})
	return next
}

// Walker drives page-by-page collection for one search URL until the offer
// ceiling, the page ceiling, or the end of pagination is reached. The
// fetch client's pacing policy supplies the inter-page delays.
type Walker struct {
	client     *fetch.Client
	dedup      *Deduplicator
	log        *slog.Logger
	baseURL    string
	source     string
	maxOffers  int
	maxPages   int
	maxPerPage int
}

// WalkerConfig bundles the collection ceilings and site identity.
type WalkerConfig struct {
	BaseURL    string
	Source     string
	MaxOffers  int
	MaxPages   int
	MaxPerPage int
}

// NewWalker creates a walker. The deduplicator is shared across search
// terms within one run so cross-term repeats are rejected too.
func NewWalker(client *fetch.Client, dedup *Deduplicator, cfg WalkerConfig, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPerPage <= 0 {
		cfg.MaxPerPage = DefaultMaxPerPage
	}
	return &Walker{
		client:     client,
		dedup:      dedup,
		log:        logger,
		baseURL:    cfg.BaseURL,
		source:     cfg.Source,
		maxOffers:  cfg.MaxOffers,
		maxPages:   cfg.MaxPages,
		maxPerPage: cfg.MaxPerPage,
	}
}

// Collect walks listing pages starting at searchURL and returns the unique
// offers found. A fetch failure surfaces as an error with the pages
// collected so far; an unparsable page is skipped and the walk continues.
func (w *Walker) Collect(ctx context.Context, searchURL string) ([]Offer, error) {
	var collected []Offer
	pageURL := searchURL

	for page := 0; pageURL != "" && len(collected) < w.maxOffers && page < w.maxPages; page++ {
		w.log.Info("fetching listing page", "url", pageURL, "page", page+1)

		doc, err := w.client.Document(ctx, pageURL)
		if err != nil {
			return collected, err
		}

		offers := ParseOffers(doc, w.baseURL, w.source, w.maxPerPage)
		w.log.Info("parsed listing page", "url", pageURL, "offers", len(offers))

		for _, offer := range offers {
			if !w.dedup.Keep(offer) {
				continue
			}
			collected = append(collected, offer)
			if len(collected) >= w.maxOffers {
				break
			}
		}

		pageURL = NextPageURL(doc, w.baseURL)
	}

	w.log.Info("collection finished", "url", searchURL, "unique_offers", len(collected))
	return collected, nil
}
