// Package server provides the HTTP REST API over the harvested corpus:
// offers, analysis results, metrics, and harvest-run control.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/camilo/empleo-radar/internal/metrics"
	"github.com/camilo/empleo-radar/internal/pipeline"
	"github.com/camilo/empleo-radar/internal/store"
)

// Corpus is the persistence surface the handlers consume. *store.Store
// satisfies it; tests supply fakes.
type Corpus interface {
	ListOffers(ctx context.Context, filters store.OfferFilters) ([]store.Offer, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*store.Offer, error)
	CreateOffer(ctx context.Context, offer store.Offer) (store.Offer, error)
	ListAnalyses(ctx context.Context, limit int) ([]store.AnalysisResult, error)
	GetAnalysis(ctx context.Context, offerID uuid.UUID) (*store.AnalysisResult, error)
	TopOffers(ctx context.Context, limit int) ([]store.RankedOffer, error)
	LoadMetricsSnapshot(ctx context.Context) (*metrics.Snapshot, error)
	ListScrapeRuns(ctx context.Context, limit int) ([]store.ScrapeRun, error)
}

// Runner controls harvest runs. *pipeline.Orchestrator satisfies it.
type Runner interface {
	Start(opts pipeline.Options) error
	Status() pipeline.Status
	Stop() bool
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	corpus     Corpus
	runner     Runner
	runOpts    pipeline.Options
	log        *slog.Logger
}

// Config holds server configuration.
type Config struct {
	ListenAddr string
	RunOptions pipeline.Options
}

// New creates a server over an already-connected corpus and runner.
func New(cfg Config, corpus Corpus, runner Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		corpus:  corpus,
		runner:  runner,
		runOpts: cfg.RunOptions,
		log:     logger,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// routes builds the request mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /ofertas", s.handleListOffers)
	mux.HandleFunc("POST /ofertas", s.handleCreateOffer)
	mux.HandleFunc("GET /ofertas/{id}", s.handleGetOffer)
	mux.HandleFunc("GET /ofertas/{id}/analisis", s.handleGetOfferAnalysis)

	mux.HandleFunc("GET /analisis", s.handleListAnalyses)
	mux.HandleFunc("GET /analisis/top", s.handleTopOffers)

	mux.HandleFunc("GET /metricas", s.handleMetrics)

	mux.HandleFunc("POST /scrape", s.handleTriggerScrape)
	mux.HandleFunc("GET /scrape/status", s.handleScrapeStatus)
	mux.HandleFunc("DELETE /scrape", s.handleCancelScrape)
	mux.HandleFunc("GET /scrape/runs", s.handleListScrapeRuns)

	return mux
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
