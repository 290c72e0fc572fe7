package fetch

import (
	"math/rand"
	"time"
)

// Policy holds the pacing and retry constants for one fetch profile. The
// listing walk and the detail enricher share the same mechanics but use
// different constants; the detail profile is deliberately more conservative.
type Policy struct {
	// Inter-request delay range, applied before every request after the first.
	BaseDelayMin time.Duration
	BaseDelayMax time.Duration

	// After RampAfter requests, an extra random delay in [RampMin, RampMax]
	// is added, imitating a human slowing down over a long session.
	RampAfter int
	RampMin   time.Duration
	RampMax   time.Duration

	// Every LongPauseEvery requests an additional pause in
	// [LongPauseMin, LongPauseMax] is inserted.
	LongPauseEvery int
	LongPauseMin   time.Duration
	LongPauseMax   time.Duration

	// MaxAttempts is the retry ceiling per URL, counting the first try.
	MaxAttempts int

	// Backoff ranges, scaled linearly by attempt number.
	SoftBlockBackoffMin time.Duration
	SoftBlockBackoffMax time.Duration
	TransientBackoffMin time.Duration
	TransientBackoffMax time.Duration

	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

// ListingPolicy returns the pacing profile for search-result pages.
func ListingPolicy() Policy {
	return Policy{
		BaseDelayMin:        1 * time.Second,
		BaseDelayMax:        3 * time.Second,
		RampAfter:           20,
		RampMin:             1 * time.Second,
		RampMax:             3 * time.Second,
		LongPauseEvery:      10,
		LongPauseMin:        5 * time.Second,
		LongPauseMax:        12 * time.Second,
		MaxAttempts:         3,
		SoftBlockBackoffMin: 10 * time.Second,
		SoftBlockBackoffMax: 25 * time.Second,
		TransientBackoffMin: 5 * time.Second,
		TransientBackoffMax: 12 * time.Second,
		Timeout:             15 * time.Second,
	}
}

// DetailPolicy returns the pacing profile for offer detail pages. Detail
// requests hit many distinct URLs in sequence, so the cadence is slower.
func DetailPolicy() Policy {
	return Policy{
		BaseDelayMin:        3 * time.Second,
		BaseDelayMax:        8 * time.Second,
		RampAfter:           10,
		RampMin:             2 * time.Second,
		RampMax:             5 * time.Second,
		LongPauseEvery:      5,
		LongPauseMin:        10 * time.Second,
		LongPauseMax:        25 * time.Second,
		MaxAttempts:         3,
		SoftBlockBackoffMin: 10 * time.Second,
		SoftBlockBackoffMax: 25 * time.Second,
		TransientBackoffMin: 5 * time.Second,
		TransientBackoffMax: 12 * time.Second,
		Timeout:             25 * time.Second,
	}
}

// delay computes the pre-request pause for the given cumulative request count.
func (p Policy) delay(rng *rand.Rand, requestCount int) time.Duration {
	d := randomBetween(rng, p.BaseDelayMin, p.BaseDelayMax)
	if p.RampAfter > 0 && requestCount > p.RampAfter {
		d += randomBetween(rng, p.RampMin, p.RampMax)
	}
	if p.LongPauseEvery > 0 && requestCount > 0 && requestCount%p.LongPauseEvery == 0 {
		d += randomBetween(rng, p.LongPauseMin, p.LongPauseMax)
	}
	return d
}

// softBlockBackoff returns the wait before retrying a soft-blocked URL.
func (p Policy) softBlockBackoff(rng *rand.Rand, attempt int) time.Duration {
	return randomBetween(rng, p.SoftBlockBackoffMin, p.SoftBlockBackoffMax) * time.Duration(attempt)
}

// transientBackoff returns the wait before retrying after a network error.
func (p Policy) transientBackoff(rng *rand.Rand, attempt int) time.Duration {
	return randomBetween(rng, p.TransientBackoffMin, p.TransientBackoffMax) * time.Duration(attempt)
}

// randomBetween draws a uniformly distributed duration from [min, max].
func randomBetween(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}
