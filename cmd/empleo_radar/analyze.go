package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camilo/empleo-radar/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Re-analyze every stored offer",
	Long:  "Extract the technology stack, detect work mode and seniority, and recompute the compatibility score for every stored offer. Safe to rerun; unchanged text produces identical results.",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
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

	analyzed, err := pipeline.AnalyzeCorpus(cmd.Context(), st, opts.Taxonomy, opts.Profile, logger)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Offers analyzed: %d\n", analyzed)
	return nil
}
