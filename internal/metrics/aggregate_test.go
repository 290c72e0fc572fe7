package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilo/empleo-radar/internal/analysis"
)

func TestAggregate_EmptyCorpus(t *testing.T) {
	_, err := Aggregate(nil, time.Now())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestAggregate_TechnologyFrequencies(t *testing.T) {
	inputs := []Input{
		{Stack: analysis.StackFindings{"lenguajes": {"python"}}},
		{Stack: analysis.StackFindings{"lenguajes": {}}},
	}

	snap, err := Aggregate(inputs, time.Now())
	require.NoError(t, err)

	require.Len(t, snap.Technologies, 1)
	assert.Equal(t, "python", snap.Technologies[0].Name)
	assert.Equal(t, "lenguajes", snap.Technologies[0].Category)
	assert.Equal(t, 1, snap.Technologies[0].Frequency)
	assert.Equal(t, 50.0, snap.Technologies[0].Percentage)
}

func TestAggregate_LocationsAndWorkModes(t *testing.T) {
	inputs := []Input{
		{Location: "Bogotá", WorkMode: "remoto"},
		{Location: "Bogotá", WorkMode: "presencial"},
		{Location: "Medellín", WorkMode: "remoto"},
	}

	snap, err := Aggregate(inputs, time.Now())
	require.NoError(t, err)

	require.Len(t, snap.Locations, 2)
	assert.Equal(t, "Bogotá", snap.Locations[0].Name)
	assert.Equal(t, 2, snap.Locations[0].Frequency)
	assert.Equal(t, 66.67, snap.Locations[0].Percentage)

	require.Len(t, snap.WorkModes, 2)
	assert.Equal(t, "remoto", snap.WorkModes[0].Name)
	assert.Equal(t, 66.67, snap.WorkModes[0].Percentage)
}

func TestAggregate_SkipsBlankLabels(t *testing.T) {
	inputs := []Input{
		{Location: "", WorkMode: ""},
		{Location: "Cali", WorkMode: "remoto"},
	}

	snap, err := Aggregate(inputs, time.Now())
	require.NoError(t, err)

	assert.Len(t, snap.Locations, 1)
	assert.Len(t, snap.WorkModes, 1)
	// Denominator still counts every analyzed offer.
	assert.Equal(t, 50.0, snap.Locations[0].Percentage)
}

func TestAggregate_MeanCompatibility(t *testing.T) {
	inputs := []Input{
		{Compatibility: 80},
		{Compatibility: 40.555},
	}

	snap, err := Aggregate(inputs, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 60.28, snap.MeanCompatibility)
	assert.Equal(t, 2, snap.AnalyzedOffers)
	assert.Equal(t, 2, snap.TotalOffers)
}

func TestAggregate_DeterministicOrdering(t *testing.T) {
	inputs := []Input{
		{Stack: analysis.StackFindings{"lenguajes": {"python", "javascript"}}},
		{Stack: analysis.StackFindings{"lenguajes": {"python"}}},
	}

	snap, err := Aggregate(inputs, time.Now())
	require.NoError(t, err)

	require.Len(t, snap.Technologies, 2)
	assert.Equal(t, "python", snap.Technologies[0].Name, "higher frequency sorts first")
	assert.Equal(t, "javascript", snap.Technologies[1].Name)
}
