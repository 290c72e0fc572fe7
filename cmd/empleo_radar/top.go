package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/camilo/empleo-radar/internal/observability"
)

var (
	topLimit   int
	topOutFile string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the best-matching offers",
	Long:  "List the analyzed offers with the highest compatibility scores, best first. With --out the full records are exported as JSON instead of printed.",
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "Number of offers to show")
	topCmd.Flags().StringVarP(&topOutFile, "out", "o", "", "Write the ranked offers as JSON to this file")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ranked, err := st.TopOffers(cmd.Context(), topLimit)
	if err != nil {
		return fmt.Errorf("failed to list top offers: %w", err)
	}

	if topOutFile != "" {
		data, err := json.MarshalIndent(ranked, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ranked offers: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(topOutFile), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(topOutFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d offers to %s\n", len(ranked), topOutFile)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintTopOffers(ranked)
	return nil
}
