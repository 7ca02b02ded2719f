// Package server exposes the AI operations, administration endpoints,
// health checks and Prometheus metrics over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/augleao/frontend-dev-sub000/internal/assist"
	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

// Assistant runs the AI-backed operations.
type Assistant interface {
	Stub() bool
	ClassifyMandate(ctx context.Context, q resolver.Query, text string) (*domain.Classification, error)
	AnalyzeRequirements(ctx context.Context, q resolver.Query, in assist.RequirementsInput) (*domain.RequirementAnalysis, error)
	GenerateAverbacao(ctx context.Context, q resolver.Query, in assist.RequirementsInput) (*assist.Averbacao, error)
	AnalyzeMandate(ctx context.Context, q resolver.Query, text string) (*domain.MandateAnalysis, error)
	RunPrompt(ctx context.Context, q resolver.Query, key string, vars map[string]any) (*assist.PromptResult, error)
	RunBatch(ctx context.Context, q resolver.Query, items []assist.BatchItem) ([]*assist.PromptResult, error)
}

// JobRunner submits and tracks async analyses.
type JobRunner interface {
	Submit(ctx context.Context, q resolver.Query, text string) (*domain.Job, error)
	Get(ctx context.Context, id string) (*domain.Job, error)
}

// ModelCatalog lists the models available to the account.
type ModelCatalog interface {
	ListAvailableModels(ctx context.Context, force bool) ([]string, error)
}

// AgentResolver resolves the configured agents of an office.
type AgentResolver interface {
	Resolve(ctx context.Context, q resolver.Query) resolver.Result
}

// ModelMonitor reports per-model health.
type ModelMonitor interface {
	Snapshot() []provider.ModelStats
}

// Check probes a dependency.
type Check func(ctx context.Context) error

// Deps are the collaborators served by the API.
type Deps struct {
	Assist   Assistant
	Jobs     JobRunner
	Catalog  ModelCatalog
	Resolver AgentResolver
	Prompts  storage.PromptRepository
	Monitor  ModelMonitor
	Checks   map[string]Check
	Provider string
	Logger   *slog.Logger
}

// Config holds listener settings.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	logger *slog.Logger
	server *http.Server
}

// NewServer creates a new API server.
func NewServer(deps Deps, cfg Config) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := &Server{deps: deps, logger: deps.Logger}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/health/detailed", s.handleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/ia", func(r chi.Router) {
		r.Get("/health", s.handleIAHealth)
		r.Get("/models", s.handleModels)
		r.Get("/agentes", s.handleAgents)

		r.Get("/prompts", s.handleListPrompts)
		r.Get("/prompts/{indexador}", s.handleGetPrompt)
		r.Put("/prompts/{indexador}", s.handlePutPrompt)
		r.Post("/prompts/{indexador}/executar", s.handleRunPrompt)
		r.Post("/executar-lote", s.handleRunBatch)

		r.Post("/identificar-tipo", s.handleClassify)
		r.Post("/analisar-exigencia", s.handleRequirements)
		r.Post("/gerar-texto-averbacao", s.handleAverbacao)
		r.Post("/analise-mandado", s.handleAnalyzeMandate)
		r.Post("/analise-mandado-async", s.handleSubmitJob)
		r.Get("/status/{jobId}", s.handleJobStatus)
	})

	return r
}
