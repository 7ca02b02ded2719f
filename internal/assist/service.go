// Package assist implements the AI-backed operations served by the API:
// mandate classification, requirement analysis, annotation text generation,
// full mandate analysis, stored prompt execution and batch execution.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/prompt"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/response"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/routing"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

// Resolver returns the candidate models for an office.
type Resolver interface {
	Resolve(ctx context.Context, q resolver.Query) resolver.Result
}

// Invoker runs a request through the fallback chain.
type Invoker interface {
	Invoke(
		ctx context.Context,
		candidates domain.CandidateList,
		req provider.Request,
		policy domain.RetryPolicy,
	) (*routing.Outcome, error)
}

// Policies selects the retry policy per call class.
type Policies struct {
	Interactive domain.RetryPolicy
	Document    domain.RetryPolicy
	Batch       domain.RetryPolicy
}

// Config configures the Service.
type Config struct {
	Stub             bool
	MaxExcerpts      int
	BatchConcurrency int
	Policies         Policies
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxExcerpts:      8,
		BatchConcurrency: 4,
		Policies: Policies{
			Interactive: domain.InteractivePolicy,
			Document:    domain.DocumentPolicy,
			Batch:       domain.BatchPolicy,
		},
	}
}

// Service composes resolution, prompt building, invocation and normalization.
type Service struct {
	cfg         Config
	resolver    Resolver
	invoker     Invoker
	prompts     *prompt.Builder
	legislation storage.LegislationRepository
	logger      *slog.Logger
}

// NewService creates a Service. legislation may be nil.
func NewService(
	cfg Config,
	res Resolver,
	inv Invoker,
	prompts *prompt.Builder,
	legislation storage.LegislationRepository,
	logger *slog.Logger,
) *Service {
	def := DefaultConfig()
	if cfg.MaxExcerpts <= 0 {
		cfg.MaxExcerpts = def.MaxExcerpts
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = def.BatchConcurrency
	}
	cfg.Policies.Interactive = cfg.Policies.Interactive.OrDefault(def.Policies.Interactive)
	cfg.Policies.Document = cfg.Policies.Document.OrDefault(def.Policies.Document)
	cfg.Policies.Batch = cfg.Policies.Batch.OrDefault(def.Policies.Batch)
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:         cfg,
		resolver:    res,
		invoker:     inv,
		prompts:     prompts,
		legislation: legislation,
		logger:      logger,
	}
}

// Stub reports whether stub mode is active.
func (s *Service) Stub() bool {
	return s.cfg.Stub
}

// candidates resolves the office models or fails with ErrConfigurationEmpty.
func (s *Service) candidates(ctx context.Context, q resolver.Query) (domain.CandidateList, error) {
	res := s.resolver.Resolve(ctx, q)
	if !res.Empty() {
		return res.Candidates, nil
	}

	office := res.Office
	if office == "" {
		office = strings.TrimSpace(q.Name)
	}
	if office == "" {
		office = q.Code
	}
	if res.Err != nil {
		return nil, fmt.Errorf("%w for office %q: %w", ErrConfigurationEmpty, office, res.Err)
	}
	return nil, fmt.Errorf("%w for office %q", ErrConfigurationEmpty, office)
}

// generate builds key with vars and invokes it. It returns the raw text and used model.
func (s *Service) generate(
	ctx context.Context,
	candidates domain.CandidateList,
	key string,
	vars map[string]any,
	policy domain.RetryPolicy,
) (string, string, error) {
	text, err := s.prompts.Build(ctx, key, vars)
	if err != nil {
		return "", "", err
	}
	s.prompts.LogPrompt(key, text, "candidates", candidates.Strings())

	out, err := s.invoker.Invoke(ctx, candidates, provider.Request{Prompt: text}, policy)
	if err != nil {
		if errors.Is(err, routing.ErrNoCandidates) {
			return "", "", fmt.Errorf("%w: %w", ErrConfigurationEmpty, err)
		}
		return "", "", err
	}

	raw := response.ExtractText(out.Response)
	s.prompts.LogResponse(key, raw, "model", out.UsedModel)
	return raw, out.UsedModel, nil
}

// ClassifyMandate identifies the mandate type of text.
func (s *Service) ClassifyMandate(ctx context.Context, q resolver.Query, text string) (*domain.Classification, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	if s.cfg.Stub {
		return &domain.Classification{Type: classifyByKeywords(text), Confidence: 0.8}, nil
	}

	candidates, err := s.candidates(ctx, q)
	if err != nil {
		return nil, err
	}

	raw, model, err := s.generate(ctx, candidates, prompt.KeyClassifyMandate,
		map[string]any{"texto": prompt.Clamp(text, maxPromptText)}, s.cfg.Policies.Interactive)
	if err != nil {
		var agg *routing.AggregatedError
		if !errors.As(err, &agg) {
			return nil, err
		}
		s.logger.Warn("Classification provider failed, using keyword heuristic", "error", err)
		return &domain.Classification{
			Type:       classifyByKeywords(text),
			Confidence: 0.4,
			Warning:    heuristicWarning,
		}, nil
	}

	result := &domain.Classification{Type: domain.MandateGeneric, Confidence: 0.5, UsedModel: model}
	parsed, ok := response.ParseJSONLoose(raw)
	fields, isObject := parsed.(map[string]any)
	if !ok || !isObject {
		s.logger.Warn("Classification output is not JSON", "model", model, "preview", prompt.Clamp(raw, 160))
		return result, nil
	}
	if tipo, _ := fields["tipo"].(string); strings.TrimSpace(tipo) != "" {
		result.Type = domain.MandateType(strings.TrimSpace(tipo))
	}
	if c := confidence(fields["confidence"]); c > 0 {
		result.Confidence = c
	}
	return result, nil
}

func confidence(v any) float64 {
	switch c := v.(type) {
	case float64:
		return c
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// RequirementsInput is the input of AnalyzeRequirements and GenerateAverbacao.
type RequirementsInput struct {
	Text        string                `json:"text"`
	Type        string                `json:"tipo"`
	Legislation []domain.LegalExcerpt `json:"legislacao"`
}

func (in RequirementsInput) vars() map[string]any {
	tipo := strings.TrimSpace(in.Type)
	if tipo == "" {
		tipo = "n/d"
	}
	return map[string]any{
		"texto":      prompt.Clamp(in.Text, maxPromptText),
		"tipo":       tipo,
		"legislacao": legalContext(in.Legislation),
	}
}

// AnalyzeRequirements checks the mandate against the supplied legislation.
// Output that cannot be parsed yields a rejected analysis instead of an error.
func (s *Service) AnalyzeRequirements(
	ctx context.Context,
	q resolver.Query,
	in RequirementsInput,
) (*domain.RequirementAnalysis, error) {
	if err := validateText(in.Text); err != nil {
		return nil, err
	}
	if s.cfg.Stub {
		return stubRequirements(in.Type, in.Legislation), nil
	}

	candidates, err := s.candidates(ctx, q)
	if err != nil {
		return nil, err
	}
	raw, model, err := s.generate(ctx, candidates, prompt.KeyAnalyzeRequirements, in.vars(), s.cfg.Policies.Document)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Approved  bool                   `json:"aprovado"`
		Reasons   []string               `json:"motivos"`
		Checklist []domain.ChecklistItem `json:"checklist"`
		Guidance  string                 `json:"orientacao"`
	}
	if !response.DecodeJSONLoose(raw, &parsed) {
		s.logger.Warn("Requirement analysis output is not JSON", "model", model, "preview", prompt.Clamp(raw, 160))
		return &domain.RequirementAnalysis{
			Reasons:   []string{malformedReason},
			Checklist: []domain.ChecklistItem{},
			UsedModel: model,
		}, nil
	}

	result := &domain.RequirementAnalysis{
		Approved:  parsed.Approved,
		Reasons:   parsed.Reasons,
		Checklist: parsed.Checklist,
		Guidance:  parsed.Guidance,
		UsedModel: model,
	}
	if result.Reasons == nil {
		result.Reasons = []string{}
	}
	if result.Checklist == nil {
		result.Checklist = []domain.ChecklistItem{}
	}
	return result, nil
}

// Averbacao is a generated annotation text.
type Averbacao struct {
	Text      string `json:"textoAverbacao"`
	UsedModel string `json:"usedModel,omitempty"`
}

// GenerateAverbacao drafts the annotation text for a mandate.
func (s *Service) GenerateAverbacao(ctx context.Context, q resolver.Query, in RequirementsInput) (*Averbacao, error) {
	if err := validateText(in.Text); err != nil {
		return nil, err
	}
	if s.cfg.Stub {
		return &Averbacao{Text: stubAverbacao(in.Type, in.Legislation)}, nil
	}

	candidates, err := s.candidates(ctx, q)
	if err != nil {
		return nil, err
	}
	raw, model, err := s.generate(ctx, candidates, prompt.KeyGenerateAverbacao, in.vars(), s.cfg.Policies.Interactive)
	if err != nil {
		return nil, err
	}

	text := response.CleanText(raw)
	if text == "" {
		text = DefaultAverbacaoText
	}
	return &Averbacao{Text: text, UsedModel: model}, nil
}

// ProgressFunc receives analysis progress updates.
type ProgressFunc func(step, message string, progress int)

// AnalyzeMandate retrieves legislation for text and produces the full analysis.
func (s *Service) AnalyzeMandate(ctx context.Context, q resolver.Query, text string) (*domain.MandateAnalysis, error) {
	return s.analyzeMandate(ctx, q, text, nil)
}

func (s *Service) analyzeMandate(
	ctx context.Context,
	q resolver.Query,
	text string,
	progress ProgressFunc,
) (*domain.MandateAnalysis, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(string, string, int) {}
	}

	progress("retrieving_legislation", "Buscando legislação relevante…", 55)
	excerpts := s.searchLegislation(ctx, text)

	progress("calling_llm", "Analisando o conteúdo com IA…", 70)
	if s.cfg.Stub {
		return &domain.MandateAnalysis{
			Approved:       true,
			Reasons:        []string{"Stub ativo: análise simulada."},
			Checklist:      mandateChecklist(text, len(excerpts)),
			AnnotationText: DefaultAverbacaoText + " (stub)",
		}, nil
	}

	candidates, err := s.candidates(ctx, q)
	if err != nil {
		return nil, err
	}
	raw, model, err := s.generate(ctx, candidates, prompt.KeyAnalyzeMandate, map[string]any{
		"texto":      prompt.Clamp(text, maxPromptText),
		"legislacao": legalContext(excerpts),
	}, s.cfg.Policies.Document)
	if err != nil {
		return nil, err
	}

	annotation := response.CleanText(raw)
	if annotation == "" {
		annotation = DefaultAverbacaoText
	}
	return &domain.MandateAnalysis{
		Approved:       true,
		Reasons:        []string{"Análise automática concluída"},
		Checklist:      mandateChecklist(text, len(excerpts)),
		AnnotationText: annotation,
		UsedModel:      model,
	}, nil
}

// searchLegislation returns the top excerpts for text. Store failures are logged and ignored.
func (s *Service) searchLegislation(ctx context.Context, text string) []domain.LegalExcerpt {
	if s.legislation == nil {
		return nil
	}
	found, err := s.legislation.Search(ctx, searchQuery(text), s.cfg.MaxExcerpts)
	if err != nil {
		s.logger.Warn("Legislation search failed, continuing without legal context", "error", err)
		return nil
	}
	excerpts := make([]domain.LegalExcerpt, 0, len(found))
	for _, e := range found {
		if e != nil {
			excerpts = append(excerpts, *e)
		}
	}
	return excerpts
}

// PromptResult is the output of a stored prompt execution.
type PromptResult struct {
	Key       string `json:"indexador"`
	Text      string `json:"text"`
	JSON      any    `json:"json,omitempty"`
	UsedModel string `json:"usedModel,omitempty"`
	Stub      bool   `json:"stub,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RunPrompt renders the stored template key with vars and executes it.
func (s *Service) RunPrompt(
	ctx context.Context,
	q resolver.Query,
	key string,
	vars map[string]any,
) (*PromptResult, error) {
	key = domain.NormalizePromptKey(key)
	if key == "" {
		return nil, invalidInput("Indexador é obrigatório.")
	}
	if s.cfg.Stub {
		return s.stubPrompt(ctx, key, vars)
	}

	candidates, err := s.candidates(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.runPrompt(ctx, candidates, key, vars, s.cfg.Policies.Interactive)
}

func (s *Service) stubPrompt(ctx context.Context, key string, vars map[string]any) (*PromptResult, error) {
	text, err := s.prompts.Build(ctx, key, vars)
	if err != nil {
		return nil, err
	}
	return &PromptResult{Key: key, Text: text, Stub: true}, nil
}

func (s *Service) runPrompt(
	ctx context.Context,
	candidates domain.CandidateList,
	key string,
	vars map[string]any,
	policy domain.RetryPolicy,
) (*PromptResult, error) {
	raw, model, err := s.generate(ctx, candidates, key, vars, policy)
	if err != nil {
		return nil, err
	}
	result := &PromptResult{Key: key, Text: strings.TrimSpace(raw), UsedModel: model}
	if parsed, ok := response.ParseJSONLoose(raw); ok {
		result.JSON = parsed
	}
	return result, nil
}

// BatchItem is one prompt execution in a batch.
type BatchItem struct {
	Key  string         `json:"indexador"`
	Vars map[string]any `json:"vars"`
}

// RunBatch executes items concurrently, bounded by BatchConcurrency.
// Item failures are reported per result; results keep the input order.
func (s *Service) RunBatch(ctx context.Context, q resolver.Query, items []BatchItem) ([]*PromptResult, error) {
	if len(items) == 0 {
		return nil, invalidInput("Lista de itens é obrigatória.")
	}

	var candidates domain.CandidateList
	if !s.cfg.Stub {
		var err error
		if candidates, err = s.candidates(ctx, q); err != nil {
			return nil, err
		}
	}

	results := make([]*PromptResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, item := range items {
		g.Go(func() error {
			key := domain.NormalizePromptKey(item.Key)
			var (
				res *PromptResult
				err error
			)
			switch {
			case key == "":
				err = invalidInput("Indexador é obrigatório.")
			case s.cfg.Stub:
				res, err = s.stubPrompt(gctx, key, item.Vars)
			default:
				res, err = s.runPrompt(gctx, candidates, key, item.Vars, s.cfg.Policies.Batch)
			}
			if err != nil {
				s.logger.Warn("Batch item failed", "index", i, "key", key, "error", err)
				res = &PromptResult{Key: key, Error: err.Error()}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
