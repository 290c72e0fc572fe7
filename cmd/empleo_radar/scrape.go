package main

import (
	"github.com/spf13/cobra"
)

var (
	scrapeTerms     []string
	scrapeMaxOffers int
	scrapeMaxPages  int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect and store offers without analyzing them",
	Long:  "Walk the configured listing pages, filter and dedup the offer cards, and persist the survivors. Skips enrichment, analysis, and metrics; use run for the full pipeline.",
	RunE:  runScrapeOnly,
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeTerms, "terms", nil, "Hyphenated search terms (overrides config)")
	scrapeCmd.Flags().IntVar(&scrapeMaxOffers, "max-offers", 0, "Stop after keeping this many offers (overrides config)")
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "Page ceiling per search term (overrides config)")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrapeOnly(cmd *cobra.Command, _ []string) error {
	return executeHarvest(cmd, harvestOverrides{
		terms:       scrapeTerms,
		maxOffers:   scrapeMaxOffers,
		maxPages:    scrapeMaxPages,
		collectOnly: true,
	})
}
