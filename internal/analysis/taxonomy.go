package analysis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/camilo/empleo-radar/internal/schemas"
)

//go:embed taxonomy.json
var defaultTaxonomyJSON []byte

// Taxonomy is the closed, versioned catalogue of technology categories the
// extractor recognizes. Categories keep their declaration order so reports
// stay stable across runs. Extending the catalogue never changes how
// existing entries match.
type Taxonomy struct {
	Version    string     `json:"version"`
	Categories []Category `json:"categories"`
}

// Category groups canonical technology names under a Spanish category key
// such as "lenguajes" or "bases_datos".
type Category struct {
	Name         string       `json:"name"`
	Technologies []Technology `json:"technologies"`
}

// Technology is one canonical entry. Synonyms are alternate spellings that
// all resolve to Name; when empty, the name itself is the only spelling.
type Technology struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// DefaultTaxonomy returns the catalogue embedded in the binary.
func DefaultTaxonomy() Taxonomy {
	var tax Taxonomy
	if err := json.Unmarshal(defaultTaxonomyJSON, &tax); err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return tax
}

// LoadTaxonomy reads a taxonomy override from disk, validating it against
// the taxonomy schema before decoding.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	if err := schemas.ValidateTaxonomy(data); err != nil {
		return Taxonomy{}, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	var tax Taxonomy
	if err := json.Unmarshal(data, &tax); err != nil {
		return Taxonomy{}, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}
	return tax, nil
}

// CategoryNames lists category keys in declaration order.
func (t Taxonomy) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories))
	for _, cat := range t.Categories {
		names = append(names, cat.Name)
	}
	return names
}
