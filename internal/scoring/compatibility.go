package scoring

import (
	"strings"

	"github.com/camilo/empleo-radar/internal/analysis"
)

// Scorer computes compatibility scores for analyzed offers against one
// profile. Safe for concurrent use.
type Scorer struct {
	profile Profile
}

// NewScorer builds a scorer for the given profile.
func NewScorer(profile Profile) *Scorer {
	return &Scorer{profile: profile.withDefaults()}
}

// StackScore sums, per profile category, the skill weights of profile
// skills the offer mentions, multiplies each sum by the category weight,
// and caps the total at the profile ceiling. The returned map breaks the
// score down by category.
//
// Comparison is case-insensitive on both sides; missing weights count 1.
func (s *Scorer) StackScore(findings analysis.StackFindings) (float64, map[string]float64) {
	score := 0.0
	details := make(map[string]float64, len(s.profile.Skills))

	for category, skills := range s.profile.Skills {
		offered := make(map[string]bool, len(findings[category]))
		for _, tech := range findings[category] {
			offered[strings.ToLower(tech)] = true
		}

		categoryScore := 0.0
		for _, skill := range skills {
			if !offered[strings.ToLower(skill)] {
				continue
			}
			weight, ok := s.profile.SkillWeights[skill]
			if !ok {
				weight = 1
			}
			categoryScore += weight
		}

		categoryWeight, ok := s.profile.CategoryWeights[category]
		if !ok {
			categoryWeight = 1
		}
		weighted := categoryScore * categoryWeight
		details[category] = weighted
		score += weighted
	}

	if score > s.profile.MaxScore {
		score = s.profile.MaxScore
	}
	return score, details
}

// FinalScore adjusts a raw stack score by the seniority-level signal:
// clearly junior postings get a boost, clearly senior ones a penalty.
// The result stays within [0, MaxScore].
func (s *Scorer) FinalScore(stackScore float64, levelScore int) float64 {
	var adjusted float64
	switch {
	case levelScore >= 3:
		adjusted = stackScore * 1.15
	case levelScore >= 1:
		adjusted = stackScore * 1.10
	case levelScore == 0:
		adjusted = stackScore
	case levelScore <= -3:
		adjusted = stackScore * 0.80
	default:
		adjusted = stackScore * 0.90
	}

	if adjusted > s.profile.MaxScore {
		adjusted = s.profile.MaxScore
	}
	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted
}

// Score runs both stages and returns the final compatibility score with
// the per-category breakdown of the raw stack stage.
func (s *Scorer) Score(findings analysis.StackFindings, levelScore int) (float64, map[string]float64) {
	stackScore, details := s.StackScore(findings)
	return s.FinalScore(stackScore, levelScore), details
}
