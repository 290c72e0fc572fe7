// Package scraper extracts job-offer records from listing pages: card
// parsing, pagination walking, per-run deduplication, relative-date
// resolution, filtering, and detail-page description enrichment.
package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Placeholder sentinels for offers whose full description is not yet known.
// The detail enricher targets rows whose description matches one of these.
const (
	DescriptionUnavailable = "Descripción no disponible"
	OfferHidden            = "Oferta oculta"
)

// DefaultMaxPerPage caps the cards taken from a single listing page,
// defending against runaway pages.
const DefaultMaxPerPage = 50

// Offer is a draft offer record parsed from one listing card. Description
// may hold a placeholder sentinel until the enricher fills it in.
type Offer struct {
	Title         string
	Company       string
	Location      string
	RawDatePhrase string
	DetailURL     string
	Description   string
	Source        string
}

// dateVocabulary marks a short text fragment as a relative-date phrase.
var dateVocabulary = []string{"hace", "min", "hora", "hoy"}

// ParseOffers extracts draft offers from a listing page. Each card's first
// link yields title and detail URL; the remaining short fragments are
// classified by content: a fragment matching the relative-date vocabulary
// becomes the raw date phrase, the first unclassified fragment the company,
// the second the location, and anything left is concatenated into a short
// description. Cards without a usable link are skipped.
func ParseOffers(doc *goquery.Document, baseURL, source string, maxPerPage int) []Offer {
	if maxPerPage <= 0 {
		maxPerPage = DefaultMaxPerPage
	}

	var offers []Offer
	doc.Find("article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("a[href]").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}
		detailURL := resolveURL(baseURL, href)
		if detailURL == "" {
			return true
		}

		offer := Offer{
			Title:     collapseSpaces(link.Text()),
			Company:   "N/A",
			Location:  "N/A",
			DetailURL: detailURL,
			Source:    source,
		}

		var description strings.Builder
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := collapseSpaces(p.Text())
			if text == "" {
				return
			}
			switch {
			case offer.RawDatePhrase == "" && isDatePhrase(text):
				offer.RawDatePhrase = text
			case offer.Company == "N/A":
				offer.Company = text
			case offer.Location == "N/A":
				offer.Location = text
			default:
				description.WriteString(" ")
				description.WriteString(text)
			}
		})

		offer.Description = strings.TrimSpace(description.String())
		if offer.Description == "" {
			offer.Description = OfferHidden
		}

		offers = append(offers, offer)
		return len(offers) < maxPerPage
	})

	return offers
}

// isDatePhrase reports whether a card fragment looks like relative-date text.
func isDatePhrase(text string) bool {
	low := strings.ToLower(text)
	for _, marker := range dateVocabulary {
		if strings.Contains(low, marker) {
			return true
		}
	}
	return false
}

// resolveURL joins a possibly relative href against the listing base URL.
func resolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// collapseSpaces trims and collapses all interior whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
