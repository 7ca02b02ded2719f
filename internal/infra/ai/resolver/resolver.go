// Package resolver determines which models an office should use.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
	"github.com/augleao/frontend-dev-sub000/internal/metrics"
)

// Reason explains how a resolution ended.
type Reason int

const (
	ReasonResolved      Reason = iota // at least one candidate found
	ReasonNotConfigured               // the office exists without agents, or no office matched
	ReasonLookupFailed                // every configured source errored
)

func (r Reason) String() string {
	switch r {
	case ReasonResolved:
		return "resolved"
	case ReasonNotConfigured:
		return "not_configured"
	case ReasonLookupFailed:
		return "lookup_failed"
	default:
		return "unknown"
	}
}

// Query identifies an office. Both fields are optional.
type Query struct {
	Code string
	Name string
}

func (q Query) normalized() Query {
	return Query{
		Code: domain.NormalizeOfficeCode(q.Code),
		Name: strings.TrimSpace(q.Name),
	}
}

// Result is the outcome of Resolve. Candidates is never nil.
type Result struct {
	Candidates domain.CandidateList
	Office     string // office name, discovered or as queried
	Source     string // table the candidates came from
	Reason     Reason
	Err        error // last lookup error, set with ReasonLookupFailed
}

// Empty reports whether no candidate was resolved.
func (r Result) Empty() bool {
	return r.Candidates.Empty()
}

// Resolver reads office agent configuration from an ordered list of sources.
type Resolver struct {
	sources []storage.OfficeRepository
	logger  *slog.Logger
}

// New creates a Resolver. Sources are consulted in order; an erroring
// source moves the lookup to the next one.
func New(sources []storage.OfficeRepository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{sources: sources, logger: logger}
}

// Resolve returns the ordered candidate models for q. Lookup failures are
// reported through Result.Reason, never as a separate error.
func (r *Resolver) Resolve(ctx context.Context, q Query) Result {
	q = q.normalized()
	res := r.resolve(ctx, q)
	metrics.ResolverLookups.WithLabelValues(res.Reason.String()).Inc()
	return res
}

func (r *Resolver) resolve(ctx context.Context, q Query) Result {
	notConfigured := Result{Candidates: domain.CandidateList{}, Office: q.Name, Reason: ReasonNotConfigured}
	if len(r.sources) == 0 {
		return notConfigured
	}

	var lastErr error
	for _, src := range r.sources {
		office, err := r.lookup(ctx, src, q)
		if errors.Is(err, storage.ErrNotFound) {
			return notConfigured
		}
		if err != nil {
			lastErr = err
			r.logger.Warn("Office lookup failed, trying next source",
				"source", src.Source(),
				"code", q.Code,
				"name", q.Name,
				"error", err,
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		candidates := office.Candidates()
		name := q.Name
		if office.Name != "" {
			name = office.Name
		}
		if candidates.Empty() {
			return Result{Candidates: candidates, Office: name, Source: src.Source(), Reason: ReasonNotConfigured}
		}
		return Result{Candidates: candidates, Office: name, Source: src.Source(), Reason: ReasonResolved}
	}

	return Result{
		Candidates: domain.CandidateList{},
		Office:     q.Name,
		Reason:     ReasonLookupFailed,
		Err:        lastErr,
	}
}

func (r *Resolver) lookup(ctx context.Context, src storage.OfficeRepository, q Query) (*domain.Office, error) {
	switch {
	case q.Code != "":
		return src.FindByCode(ctx, q.Code)
	case q.Name != "":
		return src.FindByName(ctx, q.Name)
	default:
		return src.FindAnyConfigured(ctx)
	}
}
