package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchURL(t *testing.T) {
	opts := Options{
		BaseURL: "https://www.computrabajo.com.co",
		Region:  "antioquia",
	}

	assert.Equal(t,
		"https://www.computrabajo.com.co/trabajo-de-desarrollador-web-en-antioquia",
		opts.SearchURL("desarrollador-web"))

	opts.BaseURL = "https://www.computrabajo.com.co/"
	assert.Equal(t,
		"https://www.computrabajo.com.co/trabajo-de-desarrollador-web-en-antioquia",
		opts.SearchURL("desarrollador-web"))
}

func TestStatusTracker_SingleRunConstraint(t *testing.T) {
	tracker := newStatusTracker()

	require.True(t, tracker.tryStart("desarrollador-web", func() {}))

	// A second start is rejected and leaves the active run untouched.
	assert.False(t, tracker.tryStart("desarrollador-fullstack", func() {}))

	snap := tracker.snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, "desarrollador-web", snap.SearchTerms)
	assert.Equal(t, PhaseCollecting, snap.Phase)
}

func TestStatusTracker_RestartAfterFinish(t *testing.T) {
	tracker := newStatusTracker()

	require.True(t, tracker.tryStart("a", func() {}))
	tracker.finish("")

	snap := tracker.snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, PhaseDone, snap.Phase)
	assert.Equal(t, 100, snap.Progress)
	assert.NotNil(t, snap.FinishedAt)

	assert.True(t, tracker.tryStart("b", func() {}))
}

func TestStatusTracker_FailureKeepsLastError(t *testing.T) {
	tracker := newStatusTracker()

	require.True(t, tracker.tryStart("a", func() {}))
	tracker.finish("listing fetch blocked")

	snap := tracker.snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, "listing fetch blocked", snap.LastError)
}

func TestStatusTracker_SnapshotIsImmutable(t *testing.T) {
	tracker := newStatusTracker()
	require.True(t, tracker.tryStart("a", func() {}))

	snap := tracker.snapshot()
	snap.OffersFound = 999
	snap.Phase = PhaseDone

	assert.Equal(t, 0, tracker.snapshot().OffersFound)
	assert.Equal(t, PhaseCollecting, tracker.snapshot().Phase)
}

func TestStatusTracker_StopCancelsActiveRun(t *testing.T) {
	tracker := newStatusTracker()

	cancelled := false
	require.True(t, tracker.tryStart("a", func() { cancelled = true }))

	assert.True(t, tracker.stop())
	assert.True(t, cancelled)

	tracker.finish("context canceled")
	assert.False(t, tracker.stop(), "no active run to stop")
}

func TestStatusTracker_UpdateCounters(t *testing.T) {
	tracker := newStatusTracker()
	require.True(t, tracker.tryStart("a", func() {}))

	tracker.update(func(s *Status) {
		s.OffersFound = 42
		s.OffersKept = 17
		s.Progress = 40
	})

	snap := tracker.snapshot()
	assert.Equal(t, 42, snap.OffersFound)
	assert.Equal(t, 17, snap.OffersKept)
	assert.Equal(t, 40, snap.Progress)
	assert.NotNil(t, snap.StartedAt)
	assert.WithinDuration(t, time.Now(), *snap.StartedAt, time.Minute)
}

// run_id is always present in the serialized status: the zero UUID for a
// tracker that never ran, the real ID once a run starts.
func TestStatusJSON_RunIDAlwaysPresent(t *testing.T) {
	idle, err := json.Marshal(Status{})
	require.NoError(t, err)
	assert.Contains(t, string(idle), `"run_id":"00000000-0000-0000-0000-000000000000"`)

	id := uuid.New()
	active, err := json.Marshal(Status{Running: true, RunID: id})
	require.NoError(t, err)
	assert.Contains(t, string(active), `"run_id":"`+id.String()+`"`)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 57.5, round2(57.499999999999996))
	assert.Equal(t, 28.75, round2(28.749999999999996))
	assert.Equal(t, 0.0, round2(0))
}
