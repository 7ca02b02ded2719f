package routing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
)

// fakeGenerator answers per model; models without a script succeed.
type fakeGenerator struct {
	mu     sync.Mutex
	errs   map[string]error
	calls  map[string]int
	order  []string
	cancel context.CancelFunc
}

func newFakeGenerator(errs map[string]error) *fakeGenerator {
	return &fakeGenerator{errs: errs, calls: make(map[string]int)}
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) GenerateContent(
	ctx context.Context,
	model string,
	req provider.Request,
) (*provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[model]++
	f.order = append(f.order, model)
	if f.cancel != nil {
		f.cancel()
	}
	if err, ok := f.errs[model]; ok {
		return nil, err
	}
	return &provider.Response{
		Model:      model,
		Candidates: []provider.Candidate{{Parts: []string{"ok from " + model}}},
	}, nil
}

func (f *fakeGenerator) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func newTestInvoker(gen provider.Generator, m *provider.Monitor) *Invoker {
	noSleep := &Retrier{
		Sleep:  func(ctx context.Context, d time.Duration) error { return ctx.Err() },
		Jitter: func() time.Duration { return 0 },
	}
	return NewInvoker(gen,
		WithRetrier(noSleep),
		WithMonitor(m),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func unavailable(model string) error {
	return &provider.Error{Provider: "fake", Model: model, Status: 503, Message: "overloaded"}
}

func TestInvoke_EmptyCandidates(t *testing.T) {
	gen := newFakeGenerator(nil)
	inv := newTestInvoker(gen, nil)

	for _, c := range []domain.CandidateList{nil, {}, {"  ", ""}} {
		_, err := inv.Invoke(context.Background(), c, provider.Request{Prompt: "p"}, domain.InteractivePolicy)
		if !errors.Is(err, ErrNoCandidates) {
			t.Errorf("Invoke(%q) error = %v, want ErrNoCandidates", c, err)
		}
	}
	if gen.total() != 0 {
		t.Errorf("provider must not be called, got %d calls", gen.total())
	}
}

func TestInvoke_PrimaryWins(t *testing.T) {
	gen := newFakeGenerator(nil)
	inv := newTestInvoker(gen, nil)

	out, err := inv.Invoke(context.Background(), domain.CandidateList{"model-a", "model-b"},
		provider.Request{Prompt: "p"}, domain.InteractivePolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.UsedModel != "model-a" {
		t.Errorf("expected model-a, got %s", out.UsedModel)
	}
	if gen.calls["model-b"] != 0 {
		t.Errorf("model-b must not be called")
	}
}

func TestInvoke_NthCandidateWins(t *testing.T) {
	gen := newFakeGenerator(map[string]error{
		"a": &provider.Error{Provider: "fake", Model: "a", Status: 400},
		"b": &provider.Error{Provider: "fake", Model: "b", Status: 404},
	})
	inv := newTestInvoker(gen, nil)

	out, err := inv.Invoke(context.Background(), domain.CandidateList{"a", "b", "c", "d"},
		provider.Request{Prompt: "p"}, domain.InteractivePolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.UsedModel != "c" {
		t.Errorf("expected c, got %s", out.UsedModel)
	}
	if gen.calls["d"] != 0 {
		t.Errorf("candidates after the winner must not be called")
	}
	want := []string{"a", "b", "c"}
	if len(gen.order) != len(want) {
		t.Fatalf("call order %v, want %v", gen.order, want)
	}
	for i := range want {
		if gen.order[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, gen.order[i], want[i])
		}
	}
}

func TestInvoke_AllThrottled(t *testing.T) {
	throttled := func(m string) error {
		return &provider.Error{Provider: "fake", Model: m, Status: 429, Code: provider.CodeResourceExhausted}
	}
	gen := newFakeGenerator(map[string]error{"a": throttled("a"), "b": throttled("b")})
	inv := newTestInvoker(gen, nil)
	policy := domain.RetryPolicy{Retries: 2, BaseDelay: time.Millisecond}

	_, err := inv.Invoke(context.Background(), domain.CandidateList{"a", "b"},
		provider.Request{Prompt: "p"}, policy)

	var agg *AggregatedError
	if !errors.As(err, &agg) {
		t.Fatalf("expected *AggregatedError, got %v", err)
	}
	if len(agg.Candidates) != 2 {
		t.Errorf("expected 2 candidates in error, got %v", agg.Candidates)
	}
	if provider.StatusOf(err) != 429 {
		t.Errorf("cause should be reachable through Unwrap")
	}
	for _, m := range []string{"a", "b"} {
		if gen.calls[m] != policy.Retries+1 {
			t.Errorf("model %s: expected %d attempts, got %d", m, policy.Retries+1, gen.calls[m])
		}
	}
}

func TestInvoke_FallbackAfterUnavailable(t *testing.T) {
	gen := newFakeGenerator(map[string]error{"model-a": unavailable("model-a")})
	m := provider.NewMonitor()
	inv := newTestInvoker(gen, m)
	policy := domain.RetryPolicy{Retries: 2, BaseDelay: time.Millisecond}

	out, err := inv.Invoke(context.Background(), domain.CandidateList{"model-a", "model-b"},
		provider.Request{Prompt: "p"}, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.UsedModel != "model-b" {
		t.Errorf("expected model-b, got %s", out.UsedModel)
	}
	if out.Response.Text() != "ok from model-b" {
		t.Errorf("unexpected text %q", out.Response.Text())
	}
	if got, want := gen.total(), policy.Retries+1+1; got != want {
		t.Errorf("expected %d provider calls, got %d", want, got)
	}

	stats := m.Snapshot()
	if len(stats) != 2 {
		t.Fatalf("expected monitor stats for 2 models, got %d", len(stats))
	}
	if stats[0].Model != "model-a" || stats[0].Failures != policy.Retries+1 {
		t.Errorf("unexpected stats for model-a: %+v", stats[0])
	}
	if stats[1].Successes != 1 {
		t.Errorf("unexpected stats for model-b: %+v", stats[1])
	}
}

func TestInvoke_DedupesCandidates(t *testing.T) {
	gen := newFakeGenerator(map[string]error{"a": &provider.Error{Status: 400}})
	inv := newTestInvoker(gen, nil)

	_, err := inv.Invoke(context.Background(), domain.CandidateList{"a", " a ", "a"},
		provider.Request{Prompt: "p"}, domain.InteractivePolicy)
	if err == nil {
		t.Fatal("expected error")
	}
	if gen.calls["a"] != 1 {
		t.Errorf("expected a single call to a, got %d", gen.calls["a"])
	}
}

func TestInvoke_ContextCancelStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := newFakeGenerator(map[string]error{"a": &provider.Error{Status: 400}})
	gen.cancel = cancel
	inv := newTestInvoker(gen, nil)

	_, err := inv.Invoke(ctx, domain.CandidateList{"a", "b"},
		provider.Request{Prompt: "p"}, domain.InteractivePolicy)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if gen.calls["b"] != 0 {
		t.Errorf("b must not be called after cancellation")
	}
}

func TestAggregatedErrorMessage(t *testing.T) {
	err := &AggregatedError{Candidates: []string{"a", "b"}, Cause: errors.New("boom")}
	if got := err.Error(); got != "all candidates failed [a, b]: boom" {
		t.Errorf("unexpected message %q", got)
	}
}
