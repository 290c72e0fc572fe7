package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelScore_EmptyTextIsNeutral(t *testing.T) {
	s := NewLevelScorer()
	assert.Equal(t, 0, s.Score(""))
}

func TestLevelScore_JuniorKeywordsAddPoints(t *testing.T) {
	s := NewLevelScorer()

	assert.Equal(t, 2, s.Score("desarrollador junior"))
	assert.Equal(t, 4, s.Score("practicante o trainee"))
}

func TestLevelScore_JuniorPositiveCapsAtThreeMatches(t *testing.T) {
	s := NewLevelScorer()

	// Four distinct junior keywords; only three count.
	score := s.Score("junior trainee practicante aprendiz")
	assert.Equal(t, 6, score)
}

func TestLevelScore_SeniorKeywordsSubtract(t *testing.T) {
	s := NewLevelScorer()

	// "senior" is both a junior-negative (-3) and a senior keyword (-2).
	assert.Equal(t, -5, s.Score("desarrollador senior"))
}

func TestLevelScore_MidKeywordCountedOnce(t *testing.T) {
	s := NewLevelScorer()

	// Both mid keywords present; the bucket contributes once.
	assert.Equal(t, -1, s.Score("nivel intermedio con experiencia moderada"))
}

func TestLevelScore_AccentedAndPlainSpellingCountOnce(t *testing.T) {
	s := NewLevelScorer()

	// "líder" and "lider" are the same keyword, not two matches.
	assert.Equal(t, -3, s.Score("buscamos líder de equipo"))
	assert.Equal(t, -3, s.Score("buscamos lider de equipo"))
}

func TestLevelScore_ClampedToRange(t *testing.T) {
	s := NewLevelScorer()

	score := s.Score("senior líder técnico tech lead arquitecto experto jefe 5+ años")
	assert.Equal(t, -10, score)
	assert.GreaterOrEqual(t, score, -10)

	score = s.Score("junior trainee practicante sin experiencia")
	assert.LessOrEqual(t, score, 10)
}

func TestLevelLabel_Bands(t *testing.T) {
	assert.Equal(t, LabelJuniorHigh, LevelLabel(10))
	assert.Equal(t, LabelJuniorHigh, LevelLabel(5))
	assert.Equal(t, LabelJuniorLikely, LevelLabel(4))
	assert.Equal(t, LabelJuniorLikely, LevelLabel(1))
	assert.Equal(t, LabelNeutral, LevelLabel(0))
	assert.Equal(t, LabelMidSeniorLikely, LevelLabel(-1))
	assert.Equal(t, LabelMidSeniorLikely, LevelLabel(-4))
	assert.Equal(t, LabelSeniorHigh, LevelLabel(-5))
	assert.Equal(t, LabelSeniorHigh, LevelLabel(-10))
}
