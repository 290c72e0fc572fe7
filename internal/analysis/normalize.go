// Package analysis turns raw offer text into structured findings: the
// technology stack mentioned in a posting and a seniority-level score.
// Matching is keyword-driven against a versioned Spanish taxonomy, so the
// package works entirely offline.
package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// accentFolder strips combining marks so "inyección" and "inyeccion"
// normalize to the same token.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText prepares free text for keyword matching: lower-cases,
// substitutes "#" with " sharp" so "C#" survives word-boundary regexes,
// folds accents, and collapses runs of whitespace.
//
// Keywords are passed through the same function before compilation, so
// matching is symmetric regardless of how either side was spelled.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "#", " sharp")
	if folded, _, err := transform.String(accentFolder, text); err == nil {
		text = folded
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// compileKeyword builds a word-boundary pattern for a normalized keyword.
func compileKeyword(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
}
