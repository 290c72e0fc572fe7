package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/camilo/empleo-radar/internal/pipeline"
	"github.com/camilo/empleo-radar/internal/store"
)

// handleListOffers returns stored offers, optionally filtered by source
// and location.
func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	filters := store.OfferFilters{
		Source:   r.URL.Query().Get("source"),
		Location: r.URL.Query().Get("location"),
		Limit:    queryInt(r, "limit", 0),
	}

	offers, err := s.corpus.ListOffers(r.Context(), filters)
	if err != nil {
		s.log.Error("failed to list offers", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list offers")
		return
	}
	if offers == nil {
		offers = []store.Offer{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"offers": offers, "count": len(offers)})
}

// createOfferRequest is the POST /ofertas payload.
type createOfferRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	DetailURL   string `json:"detail_url"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// handleCreateOffer stores an offer supplied by the caller rather than the
// scraper.
func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" || req.DetailURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "title and detail_url are required")
		return
	}

	now := time.Now()
	offer := store.Offer{
		Title:       req.Title,
		Company:     valueOr(req.Company, "N/A"),
		Location:    valueOr(req.Location, "N/A"),
		DetailURL:   req.DetailURL,
		Source:      valueOr(req.Source, "manual"),
		PublishedAt: &now,
	}
	if req.Description != "" {
		offer.Description = &req.Description
	}

	created, err := s.corpus.CreateOffer(r.Context(), offer)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateOffer) {
			s.errorResponse(w, http.StatusConflict, "offer with this detail URL already exists")
			return
		}
		s.log.Error("failed to create offer", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create offer")
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleGetOffer returns one offer by ID.
func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	offer, err := s.corpus.GetOffer(r.Context(), id)
	if err != nil {
		s.log.Error("failed to get offer", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get offer")
		return
	}
	if offer == nil {
		s.errorResponse(w, http.StatusNotFound, "offer not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, offer)
}

// handleGetOfferAnalysis returns the analysis for one offer.
func (s *Server) handleGetOfferAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	analysis, err := s.corpus.GetAnalysis(r.Context(), id)
	if err != nil {
		s.log.Error("failed to get analysis", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get analysis")
		return
	}
	if analysis == nil {
		s.errorResponse(w, http.StatusNotFound, "offer has no analysis yet")
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleListAnalyses returns analysis results, best matches first.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	results, err := s.corpus.ListAnalyses(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.log.Error("failed to list analyses", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if results == nil {
		results = []store.AnalysisResult{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": results, "count": len(results)})
}

// handleTopOffers returns the best-matching offers joined with their
// analysis records.
func (s *Server) handleTopOffers(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.corpus.TopOffers(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		s.log.Error("failed to list top offers", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list top offers")
		return
	}
	if ranked == nil {
		ranked = []store.RankedOffer{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"offers": ranked, "count": len(ranked)})
}

// handleMetrics returns the stored metrics snapshot.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.corpus.LoadMetricsSnapshot(r.Context())
	if err != nil {
		s.log.Error("failed to load metrics", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load metrics")
		return
	}
	if snap == nil {
		s.errorResponse(w, http.StatusNotFound, "metrics have not been computed yet")
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// triggerScrapeRequest optionally narrows one run without touching the
// configured defaults.
type triggerScrapeRequest struct {
	SearchTerms []string `json:"search_terms,omitempty"`
	MaxOffers   int      `json:"max_offers,omitempty"`
	MaxPages    int      `json:"max_pages,omitempty"`
}

// handleTriggerScrape starts a harvest run in the background and returns
// immediately. A concurrent trigger gets 409 Conflict.
func (s *Server) handleTriggerScrape(w http.ResponseWriter, r *http.Request) {
	opts := s.runOpts

	if r.Body != nil && r.ContentLength != 0 {
		var req triggerScrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.SearchTerms) > 0 {
			opts.SearchTerms = req.SearchTerms
		}
		if req.MaxOffers > 0 {
			opts.MaxOffers = req.MaxOffers
		}
		if req.MaxPages > 0 {
			opts.MaxPages = req.MaxPages
		}
	}

	if err := s.runner.Start(opts); err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			s.errorResponse(w, http.StatusConflict, "a harvest run is already in progress")
			return
		}
		s.log.Error("failed to start harvest run", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to start harvest run")
		return
	}
	s.jsonResponse(w, http.StatusAccepted, s.runner.Status())
}

// handleScrapeStatus returns the orchestrator's progress snapshot.
func (s *Server) handleScrapeStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.runner.Status())
}

// handleCancelScrape cancels the active run, if any.
func (s *Server) handleCancelScrape(w http.ResponseWriter, _ *http.Request) {
	if !s.runner.Stop() {
		s.errorResponse(w, http.StatusNotFound, "no harvest run in progress")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cancelling"})
}

// handleListScrapeRuns returns recent harvest-run records.
func (s *Server) handleListScrapeRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.corpus.ListScrapeRuns(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.log.Error("failed to list scrape runs", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list scrape runs")
		return
	}
	if runs == nil {
		runs = []store.ScrapeRun{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// pathUUID parses a UUID path segment, writing a 400 when it is invalid.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
