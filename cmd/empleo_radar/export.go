package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the analyzed corpus as JSON",
	Long:  "Write every analyzed offer, joined with its analysis record, to a timestamped JSON file (analisis_resultados_<timestamp>.json).",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "Directory to write the export file into")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	total, err := st.CountOffers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count offers: %w", err)
	}
	if total == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No offers stored; nothing to export")
		return nil
	}

	ranked, err := st.TopOffers(cmd.Context(), total)
	if err != nil {
		return fmt.Errorf("failed to read analyzed corpus: %w", err)
	}

	data, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name := fmt.Sprintf("analisis_resultados_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(exportDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d analyzed offers to %s\n", len(ranked), path)
	return nil
}
