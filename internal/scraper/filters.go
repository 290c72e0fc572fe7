package scraper

import (
	"log/slog"
	"strings"
	"time"
)

// FilterConfig holds the predicates applied before persistence.
type FilterConfig struct {
	// RecencyThreshold is the maximum elapsed time since publication. The
	// historical values drifted (24h, then 3 days); it is one explicit
	// configuration value here.
	RecencyThreshold time.Duration
	// Blacklist entries suppress offers whose company name contains the
	// entry, case-folded. Substring matching is deliberate: one entry
	// covers multiple spelling variants of the same employer.
	Blacklist []string
	// RequireRemote additionally demands a remote-work signal in the
	// offer's title, location, or description.
	RequireRemote bool
}

// FilterChain decides which parsed offers are persisted. All predicates
// must pass; dropped offers are not retried later.
type FilterChain struct {
	cfg FilterConfig
	log *slog.Logger
}

// NewFilterChain builds a filter chain with the given configuration.
func NewFilterChain(cfg FilterConfig, logger *slog.Logger) *FilterChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterChain{cfg: cfg, log: logger}
}

// Keep reports whether the offer passes every predicate, logging each
// rejection with its reason.
func (f *FilterChain) Keep(offer Offer) bool {
	if !f.isRecent(offer) {
		f.log.Debug("offer dropped: not recent", "title", offer.Title, "raw_date", offer.RawDatePhrase)
		return false
	}
	if f.isBlacklisted(offer) {
		f.log.Debug("offer dropped: blacklisted company", "title", offer.Title, "company", offer.Company)
		return false
	}
	if f.cfg.RequireRemote && !IsRemote(offer) {
		f.log.Debug("offer dropped: not remote", "title", offer.Title)
		return false
	}
	return true
}

// Apply filters a slice of offers, returning those that pass.
func (f *FilterChain) Apply(offers []Offer) []Offer {
	kept := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if f.Keep(o) {
			kept = append(kept, o)
		}
	}
	return kept
}

// isRecent resolves the raw date phrase and compares against the threshold.
// Unresolvable phrases are excluded, never assumed recent.
func (f *FilterChain) isRecent(offer Offer) bool {
	elapsed, ok := ResolveRelativeDate(offer.RawDatePhrase)
	if !ok {
		return false
	}
	return elapsed <= f.cfg.RecencyThreshold
}

// isBlacklisted checks the company name against every blacklist entry using
// case-folded substring matching.
func (f *FilterChain) isBlacklisted(offer Offer) bool {
	company := strings.ToLower(offer.Company)
	if company == "" {
		return false
	}
	for _, entry := range f.cfg.Blacklist {
		if entry == "" {
			continue
		}
		if strings.Contains(company, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

// IsRemote reports whether the offer carries a remote-work signal anywhere
// in its title, location, or description.
func IsRemote(offer Offer) bool {
	check := strings.ToLower(offer.Title + " " + offer.Location + " " + offer.Description)
	return strings.Contains(check, "remoto") || strings.Contains(check, "remote")
}

// DetectWorkMode derives a coarse work-mode tag from free text.
func DetectWorkMode(title, location, description string) string {
	check := strings.ToLower(title + " " + location + " " + description)
	switch {
	case strings.Contains(check, "híbrid") || strings.Contains(check, "hibrid") || strings.Contains(check, "hybrid"):
		return "hibrido"
	case strings.Contains(check, "remoto") || strings.Contains(check, "remote"):
		return "remoto"
	default:
		return "presencial"
	}
}
