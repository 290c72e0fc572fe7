package analysis

import (
	"regexp"
	"sort"
)

// StackFindings maps each taxonomy category to the sorted canonical names
// found in a text. Every category is present, empty or not, so consumers
// can iterate the full catalogue without nil checks.
type StackFindings map[string][]string

// Total counts canonical technologies across all categories.
func (f StackFindings) Total() int {
	n := 0
	for _, techs := range f {
		n += len(techs)
	}
	return n
}

type compiledTech struct {
	name     string
	patterns []*regexp.Regexp
}

type compiledCategory struct {
	name  string
	techs []compiledTech
}

// Extractor matches a taxonomy against normalized offer text. Patterns are
// compiled once at construction; Extract is safe for concurrent use.
type Extractor struct {
	version    string
	categories []compiledCategory
}

// NewExtractor compiles the taxonomy into word-boundary matchers. Synonym
// spellings are normalized the same way Extract normalizes its input, and
// spellings that normalize identically are compiled once.
func NewExtractor(tax Taxonomy) *Extractor {
	ex := &Extractor{version: tax.Version}
	for _, cat := range tax.Categories {
		compiled := compiledCategory{name: cat.Name}
		for _, tech := range cat.Technologies {
			spellings := tech.Synonyms
			if len(spellings) == 0 {
				spellings = []string{tech.Name}
			}
			ct := compiledTech{name: tech.Name}
			seen := make(map[string]bool, len(spellings))
			for _, spelling := range spellings {
				normalized := NormalizeText(spelling)
				if normalized == "" || seen[normalized] {
					continue
				}
				seen[normalized] = true
				ct.patterns = append(ct.patterns, compileKeyword(normalized))
			}
			if len(ct.patterns) > 0 {
				compiled.techs = append(compiled.techs, ct)
			}
		}
		ex.categories = append(ex.categories, compiled)
	}
	return ex
}

// Version reports the taxonomy version the extractor was built from.
func (ex *Extractor) Version() string { return ex.version }

// Extract scans text and returns the technologies found per category. A
// canonical name is recorded at most once per category no matter how many
// of its spellings appear.
func (ex *Extractor) Extract(text string) StackFindings {
	findings := make(StackFindings, len(ex.categories))
	for _, cat := range ex.categories {
		findings[cat.name] = []string{}
	}
	if text == "" {
		return findings
	}

	normalized := NormalizeText(text)
	for _, cat := range ex.categories {
		seen := make(map[string]bool)
		for _, tech := range cat.techs {
			if seen[tech.name] {
				continue
			}
			for _, pattern := range tech.patterns {
				if pattern.MatchString(normalized) {
					seen[tech.name] = true
					findings[cat.name] = append(findings[cat.name], tech.name)
					break
				}
			}
		}
		sort.Strings(findings[cat.name])
	}
	return findings
}
