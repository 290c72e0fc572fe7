// Package metrics aggregates analyzed offers into frequency tables for
// technologies, locations, and work modes, plus corpus-wide totals.
package metrics

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/camilo/empleo-radar/internal/analysis"
)

// ErrEmptyCorpus reports that there is nothing to aggregate. Callers treat
// it as "no data yet", not as a failure.
var ErrEmptyCorpus = errors.New("no analyzed offers to aggregate")

// Input is one analyzed offer as the aggregator sees it.
type Input struct {
	Stack         analysis.StackFindings
	Location      string
	WorkMode      string
	Compatibility float64
}

// TechCount is one technology's frequency across the corpus.
type TechCount struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

// LabelCount is a frequency entry for a plain label (location, work mode).
type LabelCount struct {
	Name       string  `json:"name"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

// Snapshot is a full metrics computation over the analyzed corpus. Each
// run replaces the previous snapshot wholesale; there is no incremental
// update path.
type Snapshot struct {
	Technologies      []TechCount  `json:"technologies"`
	Locations         []LabelCount `json:"locations"`
	WorkModes         []LabelCount `json:"work_modes"`
	TotalOffers       int          `json:"total_offers"`
	AnalyzedOffers    int          `json:"analyzed_offers"`
	MeanCompatibility float64      `json:"mean_compatibility"`
	ComputedAt        time.Time    `json:"computed_at"`
}

// Aggregate computes a snapshot. Percentages use the analyzed-offer count
// as denominator and are rounded to two decimals. TotalOffers is set to
// the analyzed count; callers tracking a larger stored corpus may
// overwrite it before persisting.
func Aggregate(inputs []Input, now time.Time) (Snapshot, error) {
	if len(inputs) == 0 {
		return Snapshot{}, ErrEmptyCorpus
	}
	total := len(inputs)

	techFreq := make(map[string]int)
	techCategory := make(map[string]string)
	locationFreq := make(map[string]int)
	modeFreq := make(map[string]int)
	compatSum := 0.0

	for _, in := range inputs {
		for category, techs := range in.Stack {
			for _, tech := range techs {
				techFreq[tech]++
				techCategory[tech] = category
			}
		}
		if in.Location != "" {
			locationFreq[in.Location]++
		}
		if in.WorkMode != "" {
			modeFreq[in.WorkMode]++
		}
		compatSum += in.Compatibility
	}

	snap := Snapshot{
		TotalOffers:       total,
		AnalyzedOffers:    total,
		MeanCompatibility: round2(compatSum / float64(total)),
		ComputedAt:        now,
	}

	for tech, freq := range techFreq {
		snap.Technologies = append(snap.Technologies, TechCount{
			Name:       tech,
			Category:   techCategory[tech],
			Frequency:  freq,
			Percentage: percentage(freq, total),
		})
	}
	for location, freq := range locationFreq {
		snap.Locations = append(snap.Locations, LabelCount{
			Name:       location,
			Frequency:  freq,
			Percentage: percentage(freq, total),
		})
	}
	for mode, freq := range modeFreq {
		snap.WorkModes = append(snap.WorkModes, LabelCount{
			Name:       mode,
			Frequency:  freq,
			Percentage: percentage(freq, total),
		})
	}

	sortTechCounts(snap.Technologies)
	sortLabelCounts(snap.Locations)
	sortLabelCounts(snap.WorkModes)
	return snap, nil
}

func percentage(freq, total int) float64 {
	return round2(float64(freq) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Most frequent first; names break ties so output is deterministic.
func sortTechCounts(counts []TechCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Frequency != counts[j].Frequency {
			return counts[i].Frequency > counts[j].Frequency
		}
		return counts[i].Name < counts[j].Name
	})
}

func sortLabelCounts(counts []LabelCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Frequency != counts[j].Frequency {
			return counts[i].Frequency > counts[j].Frequency
		}
		return counts[i].Name < counts[j].Name
	})
}
