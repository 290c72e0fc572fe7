package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Relative-date quantity patterns, checked in order. Minutes must come
// before the bare "min" abbreviation's longer forms so "57 minutos" and
// "57 min" both resolve.
var (
	minutesPattern = regexp.MustCompile(`([0-9]+)\s*min`)
	hoursPattern   = regexp.MustCompile(`([0-9]+)\s*hora`)
	daysPattern    = regexp.MustCompile(`([0-9]+)\s*d[ií]a`)
)

// ResolveRelativeDate converts phrases like "Hace 3 días" or "Hace 57
// minutos" into an elapsed duration. "hoy" resolves to zero. The second
// return value is false when the phrase cannot be interpreted; callers must
// treat that conservatively as "not recent", never as recent.
func ResolveRelativeDate(phrase string) (time.Duration, bool) {
	if phrase == "" {
		return 0, false
	}
	low := strings.ToLower(phrase)

	if m := minutesPattern.FindStringSubmatch(low); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * time.Minute, true
	}
	if m := hoursPattern.FindStringSubmatch(low); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * time.Hour, true
	}
	if m := daysPattern.FindStringSubmatch(low); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * 24 * time.Hour, true
	}
	if strings.Contains(low, "hoy") {
		return 0, true
	}
	return 0, false
}

// PublishTime derives an absolute publish timestamp from the raw date
// phrase, anchored at now. Unresolvable phrases anchor at now itself so the
// record still carries a plausible timestamp; the raw phrase is preserved
// verbatim on the record for audit.
func PublishTime(phrase string, now time.Time) time.Time {
	elapsed, ok := ResolveRelativeDate(phrase)
	if !ok {
		return now
	}
	return now.Add(-elapsed)
}
