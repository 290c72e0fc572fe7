// Package main provides the entry point for the empleo-radar CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "empleo_radar",
	Short: "Computrabajo job offer harvester",
	Long:  "empleo-radar harvests job offers from Computrabajo listings, enriches them with full descriptions, scores them against a skill profile, and aggregates corpus metrics.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
