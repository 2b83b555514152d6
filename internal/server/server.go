// Package server exposes compatibility analyses over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/pipeline"
	"github.com/abdulachik/redditcompat/internal/provider"
)

// Analyzer runs one analysis. *pipeline.Driver satisfies it.
type Analyzer interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	Provider() string
}

// ProviderLister reports backend configuration. *provider.Registry satisfies it.
type ProviderLister interface {
	List() []provider.Status
}

// Config holds server dependencies.
type Config struct {
	Analyzer  Analyzer
	Providers ProviderLister
	Health    *Health

	// Defaults applied when a request leaves the field zero.
	PostsLimit  int
	SamplePairs int

	// AnalysisTimeout bounds one POST /v1/analyses. Zero means no bound.
	AnalysisTimeout time.Duration
}

// Server handles HTTP requests.
type Server struct {
	analyzer        Analyzer
	providers       ProviderLister
	health          *Health
	postsLimit      int
	samplePairs     int
	analysisTimeout time.Duration
}

// New creates a new Server.
func New(cfg Config) *Server {
	health := cfg.Health
	if health == nil {
		health = NewHealth()
	}
	return &Server{
		analyzer:        cfg.Analyzer,
		providers:       cfg.Providers,
		health:          health,
		postsLimit:      cfg.PostsLimit,
		samplePairs:     cfg.SamplePairs,
		analysisTimeout: cfg.AnalysisTimeout,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyses", s.createAnalysis)
		r.Get("/providers", s.listProviders)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// AnalysisResponse is the body of a successful POST /v1/analyses.
type AnalysisResponse struct {
	Account1   string          `json:"account1"`
	Account2   string          `json:"account2"`
	Provider   string          `json:"provider"`
	Report     string          `json:"report"`
	Samples    []samplePayload `json:"samples"`
	Items1     int             `json:"items1"`
	Items2     int             `json:"items2"`
	DurationMs int64           `json:"duration_ms"`
}

type samplePayload struct {
	A string `json:"a"`
	B string `json:"b"`
}

func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.PostsLimit == 0 {
		req.PostsLimit = s.postsLimit
	}
	if req.SamplePairs == 0 {
		req.SamplePairs = s.samplePairs
	}

	ctx := r.Context()
	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	res, err := s.analyzer.Run(ctx, req)
	s.observe(err)
	if err != nil {
		status, code := mapError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "analysis failed", "error", err, "request_id", middleware.GetReqID(ctx))
		}
		writeError(w, r, status, code, err.Error())
		return
	}

	samples := make([]samplePayload, len(res.Samples))
	for i, p := range res.Samples {
		samples[i] = samplePayload{A: p.A, B: p.B}
	}
	writeSuccess(w, http.StatusCreated, AnalysisResponse{
		Account1:   res.Account1,
		Account2:   res.Account2,
		Provider:   res.Provider,
		Report:     res.Report,
		Samples:    samples,
		Items1:     len(res.Corpus1),
		Items2:     len(res.Corpus2),
		DurationMs: res.Duration.Milliseconds(),
	})
}

// observe updates component health from the outcome of a run.
func (s *Server) observe(err error) {
	switch {
	case err == nil:
		s.health.SetHealthy(ComponentReddit)
		s.health.SetHealthy(ComponentProvider)
	case errors.Is(err, corpus.ErrUserNotFound), errors.Is(err, pipeline.ErrInvalidRequest),
		errors.Is(err, pipeline.ErrEmptyCorpus):
		// Caller problems say nothing about dependency health.
	case errors.Is(err, corpus.ErrFetch):
		s.health.SetUnhealthy(ComponentReddit, err)
	default:
		s.health.SetHealthy(ComponentReddit)
		s.health.SetUnhealthy(ComponentProvider, err)
	}
}

func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"active":    s.analyzer.Provider(),
		"providers": s.providers.List(),
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "ok"
	if !s.health.IsHealthy() {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status":     state,
		"provider":   s.analyzer.Provider(),
		"components": s.health.Snapshot(),
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
