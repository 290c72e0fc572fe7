package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRunInProgress is returned when a harvest run is requested while
// another one is still active.
var ErrRunInProgress = errors.New("a harvest run is already in progress")

// Run phases, in execution order.
const (
	PhaseIdle        = "idle"
	PhaseCollecting  = "collecting"
	PhaseEnriching   = "enriching"
	PhaseAnalyzing   = "analyzing"
	PhaseAggregating = "aggregating"
	PhaseDone        = "done"
	PhaseFailed      = "failed"
)

// Status is an immutable snapshot of the orchestrator's progress. Pollers
// receive copies; mutating one never affects the tracker.
type Status struct {
	Running             bool       `json:"running"`
	Phase               string     `json:"phase"`
	RunID               uuid.UUID  `json:"run_id"`
	SearchTerms         string     `json:"search_terms,omitempty"`
	Progress            int        `json:"progress"`
	OffersFound         int        `json:"offers_found"`
	OffersKept          int        `json:"offers_kept"`
	DescriptionsUpdated int        `json:"descriptions_updated"`
	AnalyzedOffers      int        `json:"analyzed_offers"`
	LastError           string     `json:"last_error,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
}

// statusTracker owns the run-status record. All mutation goes through its
// mutex; the single-run constraint is a compare-and-set in tryStart.
type statusTracker struct {
	mu      sync.Mutex
	current Status
	cancel  context.CancelFunc
}

func newStatusTracker() *statusTracker {
	return &statusTracker{current: Status{Phase: PhaseIdle}}
}

// tryStart atomically claims the tracker for a new run. Returns false when
// a run is already active, leaving the active run's record untouched.
func (t *statusTracker) tryStart(searchTerms string, cancel context.CancelFunc) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.Running {
		return false
	}
	now := time.Now()
	t.current = Status{
		Running:     true,
		Phase:       PhaseCollecting,
		SearchTerms: searchTerms,
		StartedAt:   &now,
	}
	t.cancel = cancel
	return true
}

// snapshot returns a copy of the current status.
func (t *statusTracker) snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *statusTracker) update(fn func(*Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.current)
}

// finish closes the run record. An empty errMsg means success.
func (t *statusTracker) finish(errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.current.Running = false
	t.current.FinishedAt = &now
	t.current.LastError = errMsg
	if errMsg == "" {
		t.current.Phase = PhaseDone
		t.current.Progress = 100
	} else {
		t.current.Phase = PhaseFailed
	}
	t.cancel = nil
}

// stop cancels the active run's context, if any.
func (t *statusTracker) stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		return false
	}
	t.cancel()
	return true
}
