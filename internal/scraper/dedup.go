package scraper

import "strings"

// Deduplicator rejects offers already seen within one run, by exact detail
// URL and by normalized title. The listing site occasionally repeats the
// same posting under near-identical titles across pages.
type Deduplicator struct {
	seenURLs   map[string]struct{}
	seenTitles map[string]struct{}
}

// NewDeduplicator creates an empty per-run deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seenURLs:   make(map[string]struct{}),
		seenTitles: make(map[string]struct{}),
	}
}

// Keep reports whether the offer is new to this run, recording its keys when
// it is. Offers without a detail URL are always rejected.
func (d *Deduplicator) Keep(offer Offer) bool {
	if offer.DetailURL == "" {
		return false
	}
	title := normalizeTitle(offer.Title)
	if _, dup := d.seenURLs[offer.DetailURL]; dup {
		return false
	}
	if _, dup := d.seenTitles[title]; dup {
		return false
	}
	d.seenURLs[offer.DetailURL] = struct{}{}
	d.seenTitles[title] = struct{}{}
	return true
}

// Seen returns the number of distinct offers recorded so far.
func (d *Deduplicator) Seen() int {
	return len(d.seenURLs)
}

// normalizeTitle case-folds and collapses whitespace for title comparison.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
