package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/augleao/frontend-dev-sub000/internal/assist"
	"github.com/augleao/frontend-dev-sub000/internal/core/config"
	"github.com/augleao/frontend-dev-sub000/internal/core/worker"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/catalog"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/prompt"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/routing"
	redisclient "github.com/augleao/frontend-dev-sub000/internal/infra/redis"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage/memory"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage/postgres"
	"github.com/augleao/frontend-dev-sub000/internal/server"
)

// App owns the service components and their lifecycle.
type App struct {
	cfg         config.AppConfig
	db          *postgres.DB
	redisClient *redisclient.Client
	backend     *ai.Backend
	monitor     *ai.Monitor
	catalog     *catalog.Catalog
	resolver    *resolver.Resolver
	offices     []storage.OfficeRepository
	prompts     storage.PromptRepository
	builder     *prompt.Builder
	assist      *assist.Service
	jobs        *assist.Jobs
	pruner      *worker.Pruner
	server      *server.Server
	log         *slog.Logger
}

// NewApp creates an App with all dependencies initialized. Without a
// database URL the stores are in memory; without Redis the catalog
// cache and job store are in memory.
func NewApp(ctx context.Context, cfg config.AppConfig) (*App, error) {
	a := &App{cfg: cfg, log: slog.Default()}

	// 1. Storage
	var (
		legislation storage.LegislationRepository
		jobRepo     storage.JobRepository
		checks      = map[string]server.Check{}
	)
	if cfg.Database.URL != "" {
		db, err := OpenDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		checks["database"] = db.Health

		for _, table := range cfg.AI.OfficeTables {
			repo, err := postgres.NewOfficeRepo(db, table)
			if err != nil {
				db.Close()
				return nil, err
			}
			a.offices = append(a.offices, repo)
		}
		a.prompts = postgres.NewPromptRepo(db)
		legislation = postgres.NewLegislationRepo(db)
		a.log.Info("Using PostgreSQL storage", "office_tables", cfg.AI.OfficeTables)
	} else {
		store := memory.NewMemoryStorage()
		a.offices = []storage.OfficeRepository{memory.NewOfficeRepo(store)}
		a.prompts = memory.NewPromptRepo(store)
		legislation = memory.NewLegislationRepo(store)
		jobRepo = memory.NewJobRepo(store)
		a.log.Info("Using Memory storage")
	}

	// 2. Redis-backed catalog cache and job store
	var cache catalog.Cache = catalog.NewMemoryCache()
	if cfg.Redis.URL != "" {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			a.log.Warn("Failed to connect to Redis, using in-memory cache and jobs", "error", err)
		} else {
			a.redisClient = client
			cache = redisclient.NewCatalogCache(client)
			jobRepo = redisclient.NewJobStore(client, cfg.AI.JobTTL)
			checks["redis"] = client.Health
		}
	}
	if jobRepo == nil {
		jobRepo = memory.NewJobRepo(memory.NewMemoryStorage())
	}
	if target, ok := jobRepo.(worker.JobPruneTarget); ok {
		a.pruner = worker.NewPruner(cfg.AI.JobTTL, target)
	}

	// 3. Provider backend, monitor, invoker, catalog
	backend, err := ai.NewBackend(ai.BackendConfig{
		Kind:          cfg.AI.Backend,
		APIKey:        cfg.AI.APIKey,
		BaseURL:       cfg.AI.BaseURL,
		OpenAIBaseURL: cfg.AI.OpenAIBaseURL,
		Timeout:       cfg.AI.Timeout,
	})
	if err != nil {
		a.closeStores()
		return nil, err
	}
	if cfg.AI.APIKey == "" && !cfg.AI.Stub {
		a.log.Warn("GEMINI_API_KEY not set, provider calls will fail")
	}
	a.backend = backend
	a.monitor = ai.NewMonitor()

	invoker := ai.NewInvoker(backend.Generator,
		routing.WithRetrier(routing.NewRetrier()),
		routing.WithMonitor(a.monitor),
		routing.WithLogger(a.log),
	)
	a.catalog = catalog.New(backend.Primary,
		catalog.WithSecondary(backend.Secondary),
		catalog.WithCache(cache),
		catalog.WithTTL(cfg.AI.CatalogTTL),
		catalog.WithLogger(a.log),
	)

	// 4. Resolution, prompts, operations
	a.resolver = resolver.New(a.offices, a.log)
	a.builder = prompt.NewBuilder(a.prompts, prompt.Options{
		MaxInputChars: cfg.AI.MaxInputChars,
		StrictMode:    cfg.AI.StrictMode,
		LogPrompts:    cfg.AI.LogPrompts,
		LogMax:        cfg.AI.LogMax,
	}, a.log)
	a.assist = assist.NewService(assist.Config{
		Stub:             cfg.AI.Stub,
		MaxExcerpts:      cfg.AI.MaxExcerpts,
		BatchConcurrency: cfg.AI.BatchConcurrency,
		Policies: assist.Policies{
			Interactive: cfg.AI.Policies.Interactive,
			Document:    cfg.AI.Policies.Document,
			Batch:       cfg.AI.Policies.Batch,
		},
	}, a.resolver, invoker, a.builder, legislation, a.log)
	a.jobs = assist.NewJobs(a.assist, jobRepo, a.log)

	// 5. HTTP API
	a.server = server.NewServer(server.Deps{
		Assist:   a.assist,
		Jobs:     a.jobs,
		Catalog:  a.catalog,
		Resolver: a.resolver,
		Prompts:  a.prompts,
		Monitor:  a.monitor,
		Checks:   checks,
		Provider: backend.Generator.Name(),
		Logger:   a.log,
	}, server.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	return a, nil
}

// OpenDB connects to Postgres and applies the embedded migrations.
func OpenDB(ctx context.Context, cfg postgres.Config) (*postgres.DB, error) {
	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return db, nil
}

// Start starts the HTTP server and background collectors.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()

	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}
	if a.pruner != nil {
		go a.pruner.Start(ctx)
	}

	a.log.Info("Service started",
		"port", a.cfg.Server.Port,
		"provider", a.backend.Generator.Name(),
		"stub", a.cfg.AI.Stub,
		"strict_mode", a.cfg.AI.StrictMode,
	)
	return nil
}

// Stop stops the server, waits for running jobs and closes the stores.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping service...")

	err := a.server.Stop(ctx)
	a.jobs.Close()
	a.closeStores()
	return err
}

func (a *App) closeStores() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}
}

// Handler returns the HTTP API handler.
func (a *App) Handler() http.Handler { return a.server.Handler() }

// Catalog returns the model catalog.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Resolver returns the office model resolver.
func (a *App) Resolver() *resolver.Resolver { return a.resolver }

// Offices returns the office configuration stores in lookup order.
func (a *App) Offices() []storage.OfficeRepository { return a.offices }

// Prompts returns the prompt builder.
func (a *App) Prompts() *prompt.Builder { return a.builder }

// Close releases the stores without touching the HTTP server. Used by
// one-shot commands that never call Start.
func (a *App) Close() {
	a.jobs.Close()
	a.closeStores()
}
