package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelativeDate_Hours(t *testing.T) {
	elapsed, ok := ResolveRelativeDate("hace 3 horas")
	require.True(t, ok)
	assert.Equal(t, 3*time.Hour, elapsed)
}

func TestResolveRelativeDate_Minutes(t *testing.T) {
	elapsed, ok := ResolveRelativeDate("Hace 57 minutos")
	require.True(t, ok)
	assert.Equal(t, 57*time.Minute, elapsed)

	elapsed, ok = ResolveRelativeDate("Hace 12 min")
	require.True(t, ok)
	assert.Equal(t, 12*time.Minute, elapsed)
}

func TestResolveRelativeDate_Days(t *testing.T) {
	elapsed, ok := ResolveRelativeDate("Hace 3 días")
	require.True(t, ok)
	assert.Equal(t, 72*time.Hour, elapsed)

	// Unaccented spelling resolves too.
	elapsed, ok = ResolveRelativeDate("hace 2 dias")
	require.True(t, ok)
	assert.Equal(t, 48*time.Hour, elapsed)
}

func TestResolveRelativeDate_Today(t *testing.T) {
	elapsed, ok := ResolveRelativeDate("hoy")
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), elapsed)
}

func TestResolveRelativeDate_Unresolvable(t *testing.T) {
	_, ok := ResolveRelativeDate("")
	assert.False(t, ok)

	_, ok = ResolveRelativeDate("publicada la semana pasada")
	assert.False(t, ok)
}

func TestPublishTime_SubtractsElapsed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-3*time.Hour), PublishTime("hace 3 horas", now))
	assert.Equal(t, now, PublishTime("hoy", now))
	// Unresolvable phrases anchor at now.
	assert.Equal(t, now, PublishTime("???", now))
}
