package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilo/empleo-radar/internal/analysis"
)

func TestStackScore_WeightedByCategoryAndSkill(t *testing.T) {
	s := NewScorer(DefaultProfile())

	findings := analysis.StackFindings{
		"lenguajes":  {"javascript", "python"},
		"frameworks": {"react"},
	}

	score, details := s.StackScore(findings)

	// lenguajes: (5 + 5) * 3 = 30; frameworks: 5 * 5 = 25.
	assert.Equal(t, 30.0, details["lenguajes"])
	assert.Equal(t, 25.0, details["frameworks"])
	assert.Equal(t, 55.0, score)
}

func TestStackScore_CaseInsensitive(t *testing.T) {
	s := NewScorer(DefaultProfile())

	score, _ := s.StackScore(analysis.StackFindings{
		"frameworks": {"React"},
	})

	assert.Equal(t, 25.0, score)
}

func TestStackScore_EmptyFindingsScoreZero(t *testing.T) {
	s := NewScorer(DefaultProfile())

	score, details := s.StackScore(analysis.StackFindings{})

	assert.Equal(t, 0.0, score)
	for category, weighted := range details {
		assert.Equal(t, 0.0, weighted, category)
	}
}

func TestStackScore_CappedAtMaxScore(t *testing.T) {
	profile := Profile{
		Skills:          map[string][]string{"lenguajes": {"javascript", "python", "sql", "typescript"}},
		CategoryWeights: map[string]float64{"lenguajes": 10},
		SkillWeights:    map[string]float64{"javascript": 5, "python": 5, "sql": 4, "typescript": 4},
	}
	s := NewScorer(profile)

	score, _ := s.StackScore(analysis.StackFindings{
		"lenguajes": {"javascript", "python", "sql", "typescript"},
	})

	assert.Equal(t, 100.0, score)
}

func TestStackScore_MissingWeightsDefaultToOne(t *testing.T) {
	profile := Profile{
		Skills: map[string][]string{"lenguajes": {"go"}},
	}
	s := NewScorer(profile)

	score, _ := s.StackScore(analysis.StackFindings{"lenguajes": {"go"}})

	assert.Equal(t, 1.0, score)
}

func TestFinalScore_LevelAdjustment(t *testing.T) {
	s := NewScorer(DefaultProfile())

	assert.Equal(t, 57.5, s.FinalScore(50, 5))  // clearly junior: +15%
	assert.Equal(t, 55.0, s.FinalScore(50, 1))  // likely junior: +10%
	assert.Equal(t, 50.0, s.FinalScore(50, 0))  // neutral
	assert.Equal(t, 45.0, s.FinalScore(50, -1)) // leaning senior: -10%
	assert.Equal(t, 40.0, s.FinalScore(50, -5)) // clearly senior: -20%
}

func TestFinalScore_BonusCappedAtCeiling(t *testing.T) {
	s := NewScorer(DefaultProfile())

	assert.Equal(t, 100.0, s.FinalScore(95, 5))
}

func TestScore_RunsBothStages(t *testing.T) {
	s := NewScorer(DefaultProfile())

	final, details := s.Score(analysis.StackFindings{"frameworks": {"react"}}, 3)

	assert.InDelta(t, 28.75, final, 0.0001)
	assert.Equal(t, 25.0, details["frameworks"])
}

func TestDefaultProfile_Shape(t *testing.T) {
	p := DefaultProfile()

	assert.Equal(t, 100.0, p.MaxScore)
	assert.Contains(t, p.Skills["lenguajes"], "python")
	assert.Equal(t, 5.0, p.CategoryWeights["frameworks"])
	assert.Equal(t, 5.0, p.SkillWeights["react"])
}

func TestLoadProfile_AcceptsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	content := `{
		"skills": {"lenguajes": ["go"]},
		"skill_weights": {"go": 4},
		"category_weights": {"lenguajes": 2}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.MaxScore, "missing ceiling falls back to default")

	score, _ := NewScorer(p).StackScore(analysis.StackFindings{"lenguajes": {"go"}})
	assert.Equal(t, 8.0, score)
}

func TestLoadProfile_RejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_score": 100}`), 0o644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}
