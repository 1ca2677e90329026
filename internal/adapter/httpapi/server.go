// Package httpapi exposes the scored snapshot over HTTP alongside the
// service's health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/pipeline"
	"github.com/ballotmetrics/swingscore/internal/store"
)

// Scorer serves scored counties for a state.
type Scorer interface {
	States() ([]string, error)
	FromSnapshot(state string, weights domain.Weights) (pipeline.Result, error)
	CheckReadiness() error
}

// RunsLister reports recent export runs.
type RunsLister interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
}

// Server exposes the scoring API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	scorer     Scorer
	runs       RunsLister
	logger     *slog.Logger
}

// NewServer builds the router and wraps it in an http.Server. runs may be nil
// when no run store is configured; /api/runs then returns an empty list.
func NewServer(addr string, scorer Scorer, runs RunsLister, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		scorer: scorer,
		runs:   runs,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/states", s.handleStates)
		r.Get("/states/{code}", s.handleState)
		r.Get("/states/{code}/tiers", s.handleStateTiers)
		r.Get("/states/{code}/map", s.handleStateMap)
		r.Get("/runs", s.handleRuns)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if err := s.scorer.CheckReadiness(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// stateSummary is one state's entry in the /api/states listing.
type stateSummary struct {
	Code     string              `json:"code"`
	Counties int                 `json:"counties"`
	Tiers    map[domain.Tier]int `json:"tiers"`
}

func (s *Server) handleStates(w http.ResponseWriter, _ *http.Request) {
	codes, err := s.scorer.States()
	if err != nil {
		s.writeError(w, err)
		return
	}

	summaries := make([]stateSummary, 0, len(codes))
	for _, code := range codes {
		result, err := s.scorer.FromSnapshot(code, nil)
		if err != nil {
			s.writeError(w, err)
			return
		}
		summaries = append(summaries, stateSummary{
			Code:     code,
			Counties: len(result.Counties),
			Tiers:    domain.TierCounts(result.Counties),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": summaries})
}

// handleState returns one state's ranked counties. Optional query params:
// tier=S..D filters to one tier, top=N truncates, weights=w1,w2[,w3,w4]
// rescores from the stored normalized components.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	result, err := s.scoreState(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	counties := result.Counties
	if raw := r.URL.Query().Get("tier"); raw != "" {
		tier, err := domain.ParseTier(raw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		counties = domain.FilterTier(counties, tier)
	}
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, domain.Validationf("top must be an integer, got %q", raw))
			return
		}
		counties, err = domain.TopN(counties, n)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, pipeline.Result{
		State:    result.State,
		Source:   result.Source,
		Counties: counties,
	})
}

func (s *Server) handleStateTiers(w http.ResponseWriter, r *http.Request) {
	result, err := s.scoreState(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	counts := domain.TierCounts(result.Counties)
	tiers := make([]map[string]any, 0, len(domain.TierOrder))
	for _, t := range domain.TierOrder {
		lo, hi := t.Bounds()
		tiers = append(tiers, map[string]any{
			"tier":        t,
			"description": t.Description(),
			"min_score":   lo,
			"max_score":   hi,
			"count":       counts[t],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": result.State,
		"tiers": tiers,
	})
}

// mapFeature is the choropleth payload: one entry per county keyed for a
// FIPS-joined map layer.
type mapFeature struct {
	CountyFIPS    string      `json:"county_fips"`
	CountyName    string      `json:"county_name"`
	SwingScore100 float64     `json:"swing_score_100"`
	Tier          domain.Tier `json:"tier"`
}

func (s *Server) handleStateMap(w http.ResponseWriter, r *http.Request) {
	result, err := s.scoreState(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	features := make([]mapFeature, 0, len(result.Counties))
	for _, c := range result.Counties {
		features = append(features, mapFeature{
			CountyFIPS:    domain.FormatFIPS(c.CountyFIPS),
			CountyName:    c.CountyName,
			SwingScore100: c.SwingScore100(),
			Tier:          c.Tier,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    result.State,
		"counties": features,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"runs": []store.Run{}})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, domain.Validationf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// scoreState resolves the {code} path param and optional weights query param,
// then scores the state from the snapshot.
func (s *Server) scoreState(r *http.Request) (pipeline.Result, error) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	var weights domain.Weights
	if raw := r.URL.Query().Get("weights"); raw != "" {
		var err error
		weights, err = domain.ParseWeights(raw)
		if err != nil {
			return pipeline.Result{}, err
		}
	}

	result, err := s.scorer.FromSnapshot(code, weights)
	if err != nil {
		return pipeline.Result{}, err
	}
	if len(result.Counties) == 0 {
		return pipeline.Result{}, &domain.DataError{
			County: code,
			Msg:    "no counties found for state",
		}
	}
	return result, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		valErr  *domain.ValidationError
		cfgErr  *domain.ConfigurationError
		dataErr *domain.DataError
	)
	switch {
	case errors.As(err, &valErr), errors.As(err, &cfgErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &dataErr) && dataErr.County != "":
		// County-scoped: the caller asked for something that isn't there.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		// Artifact-level DataErrors (unreadable snapshot, bad raw files)
		// are server faults, same as any unexpected error.
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
