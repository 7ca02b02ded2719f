// Package ai orchestrates generative-AI calls for notary offices.
//
// This package offers:
//   - Per-office model candidates (primary plus two fallbacks) read from the office tables
//   - Ordered fallback across candidates with jittered exponential retry on 429/503
//   - Loose text/JSON extraction from model output
//   - A TTL-cached model catalog
//   - Prompt templates with {{ placeholders }}
//
// # Quick Start
//
//	import "github.com/augleao/frontend-dev-sub000/internal/infra/ai"
//
//	backend, err := ai.NewBackend(ai.BackendConfig{Kind: ai.BackendGemini, APIKey: key})
//	if err != nil {
//		return err
//	}
//	invoker := ai.NewInvoker(backend.Generator, routing.WithMonitor(ai.NewMonitor()))
//
//	offices := resolver.New([]storage.OfficeRepository{repo}, slog.Default())
//	res := offices.Resolve(ctx, ai.Query{Name: "RCPN Centro"})
//	out, err := invoker.Invoke(ctx, res.Candidates, ai.Request{Prompt: p}, domain.InteractivePolicy)
//
// # Package Structure
//
//   - provider/ - Gemini REST and OpenAI-compatible adapters, typed errors, model monitor
//   - routing/  - retry executor and fallback invoker
//   - resolver/ - office candidate resolution
//   - response/ - text and loose JSON extraction
//   - catalog/  - cached model listing
//   - prompt/   - template rendering and prompt assembly
//
// Most types are re-exported at the root level for convenience.
package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/catalog"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/routing"
)

// =============================================================================
// Re-exported types
// =============================================================================

// Generator produces content with a named model.
type Generator = provider.Generator

// ModelLister lists the models available to the account.
type ModelLister = provider.ModelLister

// Request is a single generation request.
type Request = provider.Request

// Response is the provider-neutral generation payload.
type Response = provider.Response

// ProviderError is a classified provider failure.
type ProviderError = provider.Error

// Monitor tracks per-model health.
type Monitor = provider.Monitor

// Invoker calls candidates in order until one succeeds.
type Invoker = routing.Invoker

// Outcome is a successful invocation.
type Outcome = routing.Outcome

// AggregatedError is returned when every candidate failed.
type AggregatedError = routing.AggregatedError

// Query identifies an office for candidate resolution.
type Query = resolver.Query

// Catalog serves the cached model listing.
type Catalog = catalog.Catalog

// ErrNoCandidates is returned when there is no model to call.
var ErrNoCandidates = routing.ErrNoCandidates

// =============================================================================
// Constructors
// =============================================================================

// NewMonitor creates a model monitor.
func NewMonitor() *Monitor {
	return provider.NewMonitor()
}

// NewInvoker creates a fallback invoker.
func NewInvoker(gen Generator, opts ...routing.InvokerOption) *Invoker {
	return routing.NewInvoker(gen, opts...)
}

// =============================================================================
// Backend selection
// =============================================================================

const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// BackendConfig selects and configures the provider backend.
type BackendConfig struct {
	Kind          string
	APIKey        string
	BaseURL       string
	OpenAIBaseURL string
	Timeout       time.Duration
}

// Backend bundles the generator with the listing methods used by the catalog.
type Backend struct {
	Generator Generator
	Primary   ModelLister
	Secondary ModelLister
}

// NewBackend builds the configured backend. Both adapters are created so the
// catalog can fall back to the other one's listing.
func NewBackend(cfg BackendConfig) (*Backend, error) {
	gemini := provider.NewGeminiClient(provider.GeminiConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	compat := provider.NewOpenAIClient(provider.OpenAIConfig{
		Name:    "gemini-openai",
		APIKey:  cfg.APIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.Timeout,
	})

	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", BackendGemini:
		return &Backend{Generator: gemini, Primary: gemini, Secondary: compat}, nil
	case BackendOpenAI:
		return &Backend{Generator: compat, Primary: compat, Secondary: gemini}, nil
	default:
		return nil, fmt.Errorf("unknown ai backend %q", cfg.Kind)
	}
}
