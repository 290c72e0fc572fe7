package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camilo/empleo-radar/internal/observability"
	"github.com/camilo/empleo-radar/internal/pipeline"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Recompute and print corpus metrics",
	Long:  "Aggregate technology frequencies, location and work-mode distributions, seniority labels, and the mean compatibility score over all analyzed offers, replace the stored snapshot, and print it.",
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, _ []string) error {
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

	if err := pipeline.ComputeMetrics(cmd.Context(), st, logger); err != nil {
		return fmt.Errorf("failed to compute metrics: %w", err)
	}

	snap, err := st.LoadMetricsSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load metrics: %w", err)
	}
	if snap == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No analyzed offers yet; nothing to aggregate")
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMetrics(snap)
	return nil
}
