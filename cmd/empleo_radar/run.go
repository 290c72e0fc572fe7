package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/camilo/empleo-radar/internal/observability"
	"github.com/camilo/empleo-radar/internal/pipeline"
)

var (
	runTerms          []string
	runMaxOffers      int
	runMaxPages       int
	runSkipEnrichment bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: collect, enrich, analyze, aggregate",
	Long:  "Collect recent offers from the configured listings, fetch their full descriptions, analyze and score them, and recompute corpus metrics. Runs synchronously and prints a summary.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringSliceVar(&runTerms, "terms", nil, "Hyphenated search terms (overrides config)")
	runCmd.Flags().IntVar(&runMaxOffers, "max-offers", 0, "Stop after keeping this many offers (overrides config)")
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "Page ceiling per search term (overrides config)")
	runCmd.Flags().BoolVar(&runSkipEnrichment, "skip-enrichment", false, "Skip the description-enrichment stage")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	return executeHarvest(cmd, harvestOverrides{
		terms:          runTerms,
		maxOffers:      runMaxOffers,
		maxPages:       runMaxPages,
		skipEnrichment: runSkipEnrichment,
	})
}

// harvestOverrides narrows one run without touching the configured
// defaults. Zero values leave the config untouched.
type harvestOverrides struct {
	terms          []string
	maxOffers      int
	maxPages       int
	skipEnrichment bool
	collectOnly    bool
}

func executeHarvest(cmd *cobra.Command, ov harvestOverrides) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	applyOverrides(&opts, ov)

	orch := pipeline.NewOrchestrator(st, logger)
	runErr := orch.Run(cmd.Context(), opts)

	// Print whatever the run recorded, even on failure.
	if runID := orch.Status().RunID; runID != uuid.Nil {
		run, err := st.GetScrapeRun(cmd.Context(), runID)
		if err == nil && run != nil {
			observability.NewPrinter(cmd.OutOrStdout()).PrintRunSummary(run)
		}
	}

	if runErr != nil {
		return fmt.Errorf("harvest failed: %w", runErr)
	}
	return nil
}

func applyOverrides(opts *pipeline.Options, ov harvestOverrides) {
	if len(ov.terms) > 0 {
		opts.SearchTerms = ov.terms
	}
	if ov.maxOffers > 0 {
		opts.MaxOffers = ov.maxOffers
	}
	if ov.maxPages > 0 {
		opts.MaxPages = ov.maxPages
	}
	if ov.skipEnrichment {
		opts.SkipEnrichment = true
	}
	if ov.collectOnly {
		opts.CollectOnly = true
	}
}
