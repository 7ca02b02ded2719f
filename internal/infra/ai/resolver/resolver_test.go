package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

type mockOfficeRepo struct {
	name    string
	offices []*domain.Office
	err     error
	calls   int
}

func (m *mockOfficeRepo) Source() string { return m.name }

func (m *mockOfficeRepo) FindByCode(ctx context.Context, code string) (*domain.Office, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.offices {
		if domain.NormalizeOfficeCode(o.Code) == code {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockOfficeRepo) FindByName(ctx context.Context, name string) (*domain.Office, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.offices {
		if strings.EqualFold(o.Name, name) {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockOfficeRepo) FindAnyConfigured(ctx context.Context) (*domain.Office, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.offices {
		if !o.Candidates().Empty() {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockOfficeRepo) List(ctx context.Context) ([]*domain.Office, error) {
	return m.offices, m.err
}

func (m *mockOfficeRepo) UpsertAgents(ctx context.Context, office *domain.Office) error {
	return m.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var rcpn = &domain.Office{
	Code:         "12.345-6",
	Name:         "RCPN Centro",
	PrimaryModel: "gemini-2.0-flash",
	Fallback1:    " gemini-1.5-pro ",
	Fallback2:    "gemini-2.0-flash",
}

func TestResolve_ByCode(t *testing.T) {
	repo := &mockOfficeRepo{name: "public.serventia", offices: []*domain.Office{rcpn}}
	r := New([]storage.OfficeRepository{repo}, quietLogger())

	res := r.Resolve(context.Background(), Query{Code: "123456"})
	if res.Reason != ReasonResolved {
		t.Fatalf("expected resolved, got %v", res.Reason)
	}
	want := domain.CandidateList{"gemini-2.0-flash", "gemini-1.5-pro"}
	if !reflect.DeepEqual(res.Candidates, want) {
		t.Errorf("got %v, want %v", res.Candidates, want)
	}
	if res.Office != "RCPN Centro" || res.Source != "public.serventia" {
		t.Errorf("unexpected office/source %q/%q", res.Office, res.Source)
	}
}

func TestResolve_ByNameCaseInsensitive(t *testing.T) {
	repo := &mockOfficeRepo{name: "public.serventia", offices: []*domain.Office{rcpn}}
	r := New([]storage.OfficeRepository{repo}, quietLogger())

	res := r.Resolve(context.Background(), Query{Name: "  rcpn centro "})
	if res.Empty() || res.Candidates.Primary() != "gemini-2.0-flash" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestResolve_AnyConfiguredWhenUnidentified(t *testing.T) {
	empty := &domain.Office{Code: "1", Name: "Vazia"}
	repo := &mockOfficeRepo{name: "t", offices: []*domain.Office{empty, rcpn}}
	r := New([]storage.OfficeRepository{repo}, quietLogger())

	res := r.Resolve(context.Background(), Query{})
	if res.Reason != ReasonResolved {
		t.Fatalf("expected resolved, got %v", res.Reason)
	}
	if res.Office != "RCPN Centro" {
		t.Errorf("expected discovered office name, got %q", res.Office)
	}
}

func TestResolve_NothingConfigured(t *testing.T) {
	tests := []struct {
		name    string
		offices []*domain.Office
		query   Query
	}{
		{"no offices", nil, Query{}},
		{"unknown office", []*domain.Office{rcpn}, Query{Name: "Outra"}},
		{"office without agents", []*domain.Office{{Code: "9", Name: "Vazia", Fallback1: "  "}}, Query{Code: "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockOfficeRepo{name: "t", offices: tt.offices}
			r := New([]storage.OfficeRepository{repo}, quietLogger())

			res := r.Resolve(context.Background(), tt.query)
			if res.Candidates == nil {
				t.Fatal("Candidates must never be nil")
			}
			if !res.Empty() {
				t.Errorf("expected empty candidates, got %v", res.Candidates)
			}
			if res.Reason != ReasonNotConfigured {
				t.Errorf("expected not_configured, got %v", res.Reason)
			}
		})
	}
}

func TestResolve_FailingSourceFallsThrough(t *testing.T) {
	missing := &mockOfficeRepo{name: "db_yq0x.public.serventia", err: storage.ErrUndefinedRelation}
	public := &mockOfficeRepo{name: "public.serventia", offices: []*domain.Office{rcpn}}
	r := New([]storage.OfficeRepository{missing, public}, quietLogger())

	res := r.Resolve(context.Background(), Query{Name: "RCPN Centro"})
	if res.Reason != ReasonResolved || res.Source != "public.serventia" {
		t.Errorf("expected resolution from fallback source, got %+v", res)
	}
	if missing.calls != 1 || public.calls != 1 {
		t.Errorf("expected one call per source, got %d/%d", missing.calls, public.calls)
	}
}

func TestResolve_NotFoundDoesNotFallThrough(t *testing.T) {
	first := &mockOfficeRepo{name: "a"}
	second := &mockOfficeRepo{name: "b", offices: []*domain.Office{rcpn}}
	r := New([]storage.OfficeRepository{first, second}, quietLogger())

	res := r.Resolve(context.Background(), Query{Code: "123456"})
	if res.Reason != ReasonNotConfigured {
		t.Errorf("expected not_configured, got %v", res.Reason)
	}
	if second.calls != 0 {
		t.Errorf("second source must only be consulted on failure")
	}
}

func TestResolve_AllSourcesFail(t *testing.T) {
	boom := errors.New("connection refused")
	r := New([]storage.OfficeRepository{
		&mockOfficeRepo{name: "a", err: boom},
		&mockOfficeRepo{name: "b", err: boom},
	}, quietLogger())

	res := r.Resolve(context.Background(), Query{Name: "x"})
	if res.Reason != ReasonLookupFailed {
		t.Errorf("expected lookup_failed, got %v", res.Reason)
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("expected last error, got %v", res.Err)
	}
	if res.Candidates == nil || !res.Empty() {
		t.Errorf("expected empty non-nil candidates")
	}
}

func TestResolve_NoSources(t *testing.T) {
	res := New(nil, quietLogger()).Resolve(context.Background(), Query{Name: "x"})
	if res.Candidates == nil || res.Reason != ReasonNotConfigured {
		t.Errorf("unexpected result %+v", res)
	}
}
