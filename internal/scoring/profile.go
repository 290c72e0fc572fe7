// Package scoring rates how well an analyzed offer matches a candidate
// profile. The profile is data, not code: skills per taxonomy category,
// per-skill and per-category weights, and a score ceiling, all overridable
// from a JSON file.
package scoring

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/camilo/empleo-radar/internal/schemas"
)

//go:embed profile.json
var defaultProfileJSON []byte

// DefaultMaxScore caps the raw stack score when a profile does not set its
// own ceiling.
const DefaultMaxScore = 100

// Profile describes the candidate being matched against offers. Weight
// maps may be sparse; anything missing weighs 1.
type Profile struct {
	Skills          map[string][]string `json:"skills"`
	CategoryWeights map[string]float64  `json:"category_weights"`
	SkillWeights    map[string]float64  `json:"skill_weights"`
	MaxScore        float64             `json:"max_score"`
}

// DefaultProfile returns the profile embedded in the binary.
func DefaultProfile() Profile {
	var p Profile
	if err := json.Unmarshal(defaultProfileJSON, &p); err != nil {
		panic(fmt.Sprintf("embedded profile is invalid: %v", err))
	}
	return p.withDefaults()
}

// LoadProfile reads a profile override from disk, validating it against
// the profile schema before decoding.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := schemas.ValidateProfile(data); err != nil {
		return Profile{}, fmt.Errorf("profile file %s: %w", path, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return p.withDefaults(), nil
}

func (p Profile) withDefaults() Profile {
	if p.MaxScore <= 0 {
		p.MaxScore = DefaultMaxScore
	}
	if p.CategoryWeights == nil {
		p.CategoryWeights = map[string]float64{}
	}
	if p.SkillWeights == nil {
		p.SkillWeights = map[string]float64{}
	}
	return p
}
