// Package pipeline orchestrates the harvest: collect listings, enrich
// descriptions, analyze text, and aggregate metrics, strictly in that
// order. One run at a time; progress is observable through an immutable
// status snapshot.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/camilo/empleo-radar/internal/analysis"
	"github.com/camilo/empleo-radar/internal/fetch"
	"github.com/camilo/empleo-radar/internal/metrics"
	"github.com/camilo/empleo-radar/internal/scoring"
	"github.com/camilo/empleo-radar/internal/scraper"
	"github.com/camilo/empleo-radar/internal/store"
)

// Options holds everything one harvest run needs. Nothing here is
// hard-coded in the stages; the config layer fills it in.
type Options struct {
	BaseURL          string
	SearchTerms      []string
	Region           string
	Source           string
	MaxOffers        int
	MaxPages         int
	RecencyThreshold time.Duration
	Blacklist        []string
	RequireRemote    bool
	SkipEnrichment   bool
	CollectOnly      bool
	Taxonomy         analysis.Taxonomy
	Profile          scoring.Profile
}

// SearchURL builds the listing URL for one hyphenated search term, e.g.
// {base}/trabajo-de-desarrollador-web-en-antioquia.
func (o Options) SearchURL(term string) string {
	return fmt.Sprintf("%s/trabajo-de-%s-en-%s", strings.TrimSuffix(o.BaseURL, "/"), term, o.Region)
}

// Orchestrator runs the pipeline stages and owns the run-status record.
type Orchestrator struct {
	store  *store.Store
	log    *slog.Logger
	status *statusTracker
}

// NewOrchestrator builds an orchestrator over the given store.
func NewOrchestrator(st *store.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  st,
		log:    logger,
		status: newStatusTracker(),
	}
}

// Status returns an immutable snapshot of the current or last run.
func (o *Orchestrator) Status() Status {
	return o.status.snapshot()
}

// Start launches a harvest run in the background and returns immediately.
// Returns ErrRunInProgress when a run is already active; the active run is
// not disturbed.
func (o *Orchestrator) Start(opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	if !o.status.tryStart(strings.Join(opts.SearchTerms, ", "), cancel) {
		cancel()
		return ErrRunInProgress
	}
	go func() {
		defer cancel()
		o.run(ctx, opts)
	}()
	return nil
}

// Stop cancels the active run, if any. The run finishes with its context
// error recorded.
func (o *Orchestrator) Stop() bool {
	return o.status.stop()
}

// Run executes the pipeline synchronously, for CLI use. The same
// single-run constraint applies.
func (o *Orchestrator) Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !o.status.tryStart(strings.Join(opts.SearchTerms, ", "), cancel) {
		return ErrRunInProgress
	}
	o.run(ctx, opts)
	if status := o.status.snapshot(); status.LastError != "" {
		return fmt.Errorf("harvest run failed: %s", status.LastError)
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, opts Options) {
	runID, err := o.store.CreateScrapeRun(ctx, strings.Join(opts.SearchTerms, ", "))
	if err != nil {
		// Persistence being down is fatal for the run.
		o.log.Error("failed to record scrape run", "error", err)
		o.status.finish(err.Error())
		return
	}
	o.status.update(func(s *Status) { s.RunID = runID })

	err = o.runStages(ctx, opts)

	errMsg := ""
	runStatus := "completed"
	if err != nil {
		errMsg = err.Error()
		runStatus = "failed"
		o.log.Error("harvest run failed", "run_id", runID, "error", err)
	} else {
		o.log.Info("harvest run completed", "run_id", runID)
	}

	snap := o.status.snapshot()
	finishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if ferr := o.store.FinishScrapeRun(finishCtx, runID, runStatus, snap.OffersFound, snap.OffersKept, errMsg); ferr != nil {
		o.log.Error("failed to close scrape run record", "run_id", runID, "error", ferr)
	}
	o.status.finish(errMsg)
}

func (o *Orchestrator) runStages(ctx context.Context, opts Options) error {
	o.setPhase(PhaseCollecting, 5)
	if err := o.collect(ctx, opts); err != nil {
		return fmt.Errorf("collect stage: %w", err)
	}
	if opts.CollectOnly {
		return nil
	}

	if !opts.SkipEnrichment {
		o.setPhase(PhaseEnriching, 40)
		if err := o.enrich(ctx, opts); err != nil {
			return fmt.Errorf("enrich stage: %w", err)
		}
	}

	o.setPhase(PhaseAnalyzing, 70)
	analyzed, err := AnalyzeCorpus(ctx, o.store, opts.Taxonomy, opts.Profile, o.log)
	if err != nil {
		return fmt.Errorf("analyze stage: %w", err)
	}
	o.status.update(func(s *Status) { s.AnalyzedOffers = analyzed })

	o.setPhase(PhaseAggregating, 90)
	if err := ComputeMetrics(ctx, o.store, o.log); err != nil {
		return fmt.Errorf("metrics stage: %w", err)
	}
	return nil
}

func (o *Orchestrator) setPhase(phase string, progress int) {
	o.status.update(func(s *Status) {
		s.Phase = phase
		s.Progress = progress
	})
	o.log.Info("pipeline phase", "phase", phase)
}

// collect walks the listing pages for every search term, filters and
// dedups the cards, and stores the survivors. Terms share one client so
// pacing ramps across the whole stage, and one deduplicator so a posting
// listed under two terms is kept once.
func (o *Orchestrator) collect(ctx context.Context, opts Options) error {
	client := fetch.NewClient(fetch.ListingPolicy(), opts.BaseURL+"/", o.log)
	dedup := scraper.NewDeduplicator()
	filters := scraper.NewFilterChain(scraper.FilterConfig{
		RecencyThreshold: opts.RecencyThreshold,
		Blacklist:        opts.Blacklist,
		RequireRemote:    opts.RequireRemote,
	}, o.log)

	found := 0
	kept := 0
	for _, term := range opts.SearchTerms {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		remaining := opts.MaxOffers - kept
		if remaining <= 0 {
			break
		}

		walker := scraper.NewWalker(client, dedup, scraper.WalkerConfig{
			BaseURL:    opts.BaseURL,
			Source:     opts.Source,
			MaxOffers:  remaining,
			MaxPages:   opts.MaxPages,
			MaxPerPage: scraper.DefaultMaxPerPage,
		}, o.log)

		offers, err := walker.Collect(ctx, opts.SearchURL(term))
		found += len(offers)
		o.status.update(func(s *Status) { s.OffersFound = found })

		if serr := o.storeOffers(ctx, filters.Apply(offers), &kept); serr != nil {
			return serr
		}

		if err != nil {
			// Listing fetch errors (soft-block exhaustion included) abort
			// the stage; what was stored so far stays resumable.
			return err
		}
	}
	o.log.Info("collect stage finished", "found", found, "kept", kept)
	return nil
}

func (o *Orchestrator) storeOffers(ctx context.Context, offers []scraper.Offer, kept *int) error {
	now := time.Now()
	for _, offer := range offers {
		published := scraper.PublishTime(offer.RawDatePhrase, now)
		record := store.Offer{
			Title:         offer.Title,
			Company:       offer.Company,
			Location:      offer.Location,
			RawDatePhrase: offer.RawDatePhrase,
			PublishedAt:   &published,
			DetailURL:     offer.DetailURL,
			Source:        offer.Source,
		}
		if offer.Description != "" {
			record.Description = &offer.Description
		}
		inserted, err := o.store.UpsertOffer(ctx, record)
		if err != nil {
			return err
		}
		if inserted {
			*kept++
			o.status.update(func(s *Status) { s.OffersKept = *kept })
		}
	}
	return nil
}

// enrich revisits stored offers whose descriptions are missing or left as
// placeholders, with the slower detail-page pacing.
func (o *Orchestrator) enrich(ctx context.Context, opts Options) error {
	pending, err := o.store.ListMissingDescriptions(ctx, opts.MaxOffers)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		o.log.Info("no offers pending description enrichment")
		return nil
	}

	client := fetch.NewClient(fetch.DetailPolicy(), opts.BaseURL+"/", o.log)
	enricher := scraper.NewEnricher(client, o.log)
	updated, failed, err := enricher.Enrich(ctx, pending, o.store)
	o.status.update(func(s *Status) { s.DescriptionsUpdated = updated })
	o.log.Info("enrich stage finished", "updated", updated, "failed", failed)
	return err
}

// AnalyzeCorpus re-derives stack, work mode, level, and compatibility for
// every stored offer. Idempotent: unchanged text produces identical rows.
// Extraction is pure CPU work, so offers are scored concurrently; only
// the database writes fan in.
func AnalyzeCorpus(ctx context.Context, st *store.Store, tax analysis.Taxonomy, profile scoring.Profile, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	offers, err := st.ListAnalyzableOffers(ctx)
	if err != nil {
		return 0, err
	}
	if len(offers) == 0 {
		logger.Info("no offers to analyze")
		return 0, nil
	}

	extractor := analysis.NewExtractor(tax)
	levels := analysis.NewLevelScorer()
	scorer := scoring.NewScorer(profile)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, offer := range offers {
		g.Go(func() error {
			text := offer.Title + "\n" + offer.Description
			stack := extractor.Extract(text)
			levelScore := levels.Score(text)
			compat, _ := scorer.Score(stack, levelScore)

			return st.UpsertAnalysis(gCtx, store.AnalysisResult{
				OfferID:         offer.ID,
				Stack:           stack,
				WorkMode:        scraper.DetectWorkMode(offer.Title, offer.Location, offer.Description),
				LevelScore:      levelScore,
				LevelLabel:      analysis.LevelLabel(levelScore),
				Compatibility:   round2(compat),
				TaxonomyVersion: tax.Version,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	logger.Info("analysis finished", "offers", len(offers), "taxonomy", tax.Version)
	return len(offers), nil
}

// ComputeMetrics aggregates the analyzed corpus and replaces the stored
// snapshot. An empty corpus clears nothing and is not an error.
func ComputeMetrics(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	inputs, err := st.ListMetricsInputs(ctx)
	if err != nil {
		return err
	}

	snap, err := metrics.Aggregate(inputs, time.Now())
	if err == metrics.ErrEmptyCorpus {
		logger.Info("no analyzed offers, metrics snapshot unchanged")
		return nil
	}
	if err != nil {
		return err
	}

	if total, err := st.CountOffers(ctx); err == nil {
		snap.TotalOffers = total
	}
	if err := st.SaveMetricsSnapshot(ctx, snap); err != nil {
		return err
	}
	logger.Info("metrics snapshot saved",
		"technologies", len(snap.Technologies),
		"analyzed", snap.AnalyzedOffers,
		"mean_compatibility", snap.MeanCompatibility)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
