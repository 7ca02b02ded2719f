package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
	"github.com/augleao/frontend-dev-sub000/internal/metrics"
)

// ErrNoCandidates is returned when there is no model to call.
var ErrNoCandidates = errors.New("no model candidates configured")

// Outcome is a successful invocation.
type Outcome struct {
	Response  *provider.Response
	UsedModel string
	Attempts  int
}

// AggregatedError is returned when every candidate failed.
type AggregatedError struct {
	Candidates []string
	Cause      error
}

func (e *AggregatedError) Error() string {
	return fmt.Sprintf("all candidates failed [%s]: %v",
		strings.Join(e.Candidates, ", "), e.Cause)
}

func (e *AggregatedError) Unwrap() error {
	return e.Cause
}

// Invoker calls candidates in order until one succeeds.
type Invoker struct {
	gen     provider.Generator
	retrier *Retrier
	monitor *provider.Monitor
	logger  *slog.Logger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithRetrier overrides the retry executor.
func WithRetrier(r *Retrier) InvokerOption {
	return func(i *Invoker) { i.retrier = r }
}

// WithMonitor records attempts on m.
func WithMonitor(m *provider.Monitor) InvokerOption {
	return func(i *Invoker) { i.monitor = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) InvokerOption {
	return func(i *Invoker) { i.logger = l }
}

// NewInvoker creates an Invoker backed by gen.
func NewInvoker(gen provider.Generator, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		gen:     gen,
		retrier: NewRetrier(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke tries each candidate in order, each through the retry executor.
// The next candidate is tried after any failure; a cancelled context stops the chain.
func (i *Invoker) Invoke(
	ctx context.Context,
	candidates domain.CandidateList,
	req provider.Request,
	policy domain.RetryPolicy,
) (*Outcome, error) {
	models := domain.NewCandidateList(candidates...)
	if models.Empty() {
		metrics.InvocationsTotal.WithLabelValues("no_candidates").Inc()
		return nil, ErrNoCandidates
	}

	var lastErr error
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempts := 0
		resp, err := Execute(ctx, i.retrier, policy,
			func(ctx context.Context) (*provider.Response, error) {
				attempts++
				if attempts > 1 {
					metrics.RetriesTotal.WithLabelValues(model).Inc()
				}
				return i.call(ctx, model, req)
			})
		if err == nil {
			metrics.InvocationsTotal.WithLabelValues("success").Inc()
			if model != models.Primary() {
				i.logger.Info("Fallback candidate succeeded",
					"model", model, "primary", models.Primary())
			}
			return &Outcome{Response: resp, UsedModel: model, Attempts: attempts}, nil
		}

		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		metrics.FallbacksTotal.WithLabelValues(model).Inc()
		i.logger.Warn("Model candidate failed",
			"model", model,
			"status", provider.StatusOf(err),
			"class", provider.Classify(err).String(),
			"attempts", attempts,
			"error", err,
		)
	}

	metrics.InvocationsTotal.WithLabelValues("exhausted").Inc()
	return nil, &AggregatedError{Candidates: models.Strings(), Cause: lastErr}
}

func (i *Invoker) call(ctx context.Context, model string, req provider.Request) (*provider.Response, error) {
	name := i.gen.Name()
	metrics.ProviderCallsTotal.WithLabelValues(name, model).Inc()

	start := time.Now()
	resp, err := i.gen.GenerateContent(ctx, model, req)
	latency := time.Since(start)
	metrics.ProviderLatency.WithLabelValues(name, model).Observe(latency.Seconds())

	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(name, model, provider.Classify(err).String()).Inc()
		if i.monitor != nil {
			i.monitor.RecordFailure(model, err)
		}
		return nil, err
	}
	if i.monitor != nil {
		i.monitor.RecordSuccess(model, latency)
	}
	return resp, nil
}
