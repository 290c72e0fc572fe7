package analysis

import "regexp"

// Seniority-level keyword buckets, Spanish and English mixed because the
// source site carries both. Each bucket has a per-text match cap and a
// score contribution per matching keyword.
var (
	juniorPositiveKeywords = []string{
		"junior", "trainee", "auxiliar", "asistente",
		"sin experiencia", "recién egresado", "recien egresado",
		"practicante", "aprendiz", "entry level", "entrada",
		"principiante", "iniciando", "primer empleo",
		"0-1 año", "0-2 años", "menos de 2 años",
	}
	juniorNegativeKeywords = []string{
		"senior", "líder", "lider", "lead", "arquitecto",
		"experto", "especialista senior", "jefe",
		"5+ años", "5 años de experiencia", "experiencia amplia",
		"más de 3 años", "mas de 3 años", "mínimo 4 años",
		"minimo 4 años",
	}
	midKeywords = []string{
		"semi senior", "semisenior", "mid level", "intermedio",
		"2-4 años", "3 años de experiencia", "experiencia moderada",
	}
	seniorKeywords = []string{
		"senior", "líder técnico", "lider tecnico", "tech lead",
		"arquitecto", "especialista", "experto",
		"5+ años", "más de 5 años", "amplia experiencia",
	}
)

const (
	// Score bands for LevelLabel.
	LabelJuniorHigh      = "Junior Alta Confianza"
	LabelJuniorLikely    = "Junior Probable"
	LabelNeutral         = "Neutro/Ambiguo"
	LabelMidSeniorLikely = "Mid/Senior Probable"
	LabelSeniorHigh      = "Senior Alta Confianza"
)

type levelBucket struct {
	patterns   []*regexp.Regexp
	maxMatches int
	points     int
}

// compileBucket normalizes and dedupes keywords before compiling, so
// accented and plain spellings of the same word count as one keyword.
func compileBucket(keywords []string, maxMatches, points int) levelBucket {
	bucket := levelBucket{maxMatches: maxMatches, points: points}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		normalized := NormalizeText(kw)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		bucket.patterns = append(bucket.patterns, compileKeyword(normalized))
	}
	return bucket
}

// score counts distinct matching keywords up to the bucket cap.
func (b levelBucket) score(text string) int {
	matches := 0
	for _, pattern := range b.patterns {
		if matches >= b.maxMatches {
			break
		}
		if pattern.MatchString(text) {
			matches++
		}
	}
	return matches * b.points
}

// LevelScorer estimates how junior or senior a posting reads. Scores land
// in [-10, 10]: positive means junior-friendly, negative means the posting
// targets experienced candidates.
type LevelScorer struct {
	buckets []levelBucket
}

// NewLevelScorer builds the default scorer.
func NewLevelScorer() *LevelScorer {
	return &LevelScorer{
		buckets: []levelBucket{
			compileBucket(juniorPositiveKeywords, 3, 2),
			compileBucket(juniorNegativeKeywords, 2, -3),
			compileBucket(midKeywords, 1, -1),
			compileBucket(seniorKeywords, 2, -2),
		},
	}
}

// Score scans title plus description and returns the clamped level score.
func (s *LevelScorer) Score(text string) int {
	if text == "" {
		return 0
	}
	normalized := NormalizeText(text)
	score := 0
	for _, bucket := range s.buckets {
		score += bucket.score(normalized)
	}
	if score > 10 {
		score = 10
	}
	if score < -10 {
		score = -10
	}
	return score
}

// LevelLabel maps a level score to its human-readable band. The mapping is
// pure; it never feeds back into the numeric score.
func LevelLabel(score int) string {
	switch {
	case score >= 5:
		return LabelJuniorHigh
	case score >= 1:
		return LabelJuniorLikely
	case score == 0:
		return LabelNeutral
	case score >= -4:
		return LabelMidSeniorLikely
	default:
		return LabelSeniorHigh
	}
}
