// Package api exposes the summarization service over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kulurunagavardhanreddy/lumio/internal/config"
	"github.com/kulurunagavardhanreddy/lumio/internal/mailer"
	"github.com/kulurunagavardhanreddy/lumio/internal/pipeline"
	"github.com/kulurunagavardhanreddy/lumio/internal/store"
	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
)

// Server is the HTTP API server for lumio.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *store.Store
	summarizer   summarize.Summarizer
	stats        *summarize.Stats
	mailer       *mailer.Mailer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. mail may be nil
// when the email feature is not configured.
func NewServer(orch *pipeline.Orchestrator, st *store.Store, sum summarize.Summarizer, stats *summarize.Stats, mail *mailer.Mailer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        st,
		summarizer:   sum,
		stats:        stats,
		mailer:       mail,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints, authenticated when an api key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/summarize", s.handleSummarize)
		r.Post("/api/jobs", s.handleCreateJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/summaries", s.handleListSummaries)
		r.Get("/api/summaries/{id}", s.handleGetSummary)
		r.Delete("/api/summaries/{id}", s.handleDeleteSummary)
		r.Get("/api/summaries/{id}/export", s.handleExportSummary)
		r.Post("/api/summaries/{id}/email", s.handleEmailSummary)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
