package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camilo/empleo-radar/internal/fetch"
	"github.com/camilo/empleo-radar/internal/scraper"
)

var enrichLimit int

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch full descriptions for offers that lack one",
	Long:  "Visit the detail page of every stored offer whose description is missing or was previously unavailable, and persist the extracted text.",
	RunE:  runEnrich,
}

func init() {
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "Maximum offers to enrich (0 uses the configured offer ceiling)")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
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

	limit := enrichLimit
	if limit <= 0 {
		limit = cfg.MaxOffers
	}
	pending, err := st.ListMissingDescriptions(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list offers pending enrichment: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No offers pending description enrichment")
		return nil
	}

	client := fetch.NewClient(fetch.DetailPolicy(), cfg.BaseURL+"/", logger)
	enricher := scraper.NewEnricher(client, logger)
	updated, failed, err := enricher.Enrich(cmd.Context(), pending, st)
	if err != nil {
		return fmt.Errorf("enrichment aborted: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Descriptions updated: %d (failed: %d)\n", updated, failed)
	return nil
}
