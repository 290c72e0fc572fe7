package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camilo/empleo-radar/internal/pipeline"
	"github.com/camilo/empleo-radar/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server that exposes the harvested offers, their analyses, corpus metrics, and endpoints to trigger and watch harvest runs.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
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

	orch := pipeline.NewOrchestrator(st, logger)
	// Cancel any in-flight background run on shutdown.
	defer orch.Stop()

	srv := server.New(server.Config{
		ListenAddr: cfg.ListenAddr,
		RunOptions: opts,
	}, st, orch, logger)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
