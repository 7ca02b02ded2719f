package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

type MemoryStorage struct {
	offices     []*domain.Office
	prompts     map[string]*domain.PromptTemplate
	legislation []*domain.LegalExcerpt
	jobs        map[string]*domain.Job
	mu          sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		prompts: make(map[string]*domain.PromptTemplate),
		jobs:    make(map[string]*domain.Job),
	}
}

// -----------------------------------------------------------------------------
// Office Repository
// -----------------------------------------------------------------------------

type OfficeRepo struct {
	store *MemoryStorage
}

func NewOfficeRepo(store *MemoryStorage) *OfficeRepo {
	return &OfficeRepo{store: store}
}

func (r *OfficeRepo) Source() string {
	return "memory"
}

func cloneOffice(o *domain.Office) *domain.Office {
	c := *o
	return &c
}

func (r *OfficeRepo) FindByCode(ctx context.Context, code string) (*domain.Office, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	code = domain.NormalizeOfficeCode(code)
	for _, o := range r.store.offices {
		if domain.NormalizeOfficeCode(o.Code) == code {
			return cloneOffice(o), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *OfficeRepo) FindByName(ctx context.Context, name string) (*domain.Office, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, o := range r.store.offices {
		if strings.EqualFold(o.Name, name) {
			return cloneOffice(o), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *OfficeRepo) FindAnyConfigured(ctx context.Context) (*domain.Office, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var found *domain.Office
	for _, o := range r.store.offices {
		if o.Candidates().Empty() {
			continue
		}
		if found == nil || o.Name < found.Name {
			found = o
		}
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return cloneOffice(found), nil
}

func (r *OfficeRepo) List(ctx context.Context) ([]*domain.Office, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.Office, 0, len(r.store.offices))
	for _, o := range r.store.offices {
		out = append(out, cloneOffice(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *OfficeRepo) UpsertAgents(ctx context.Context, office *domain.Office) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	code := domain.NormalizeOfficeCode(office.Code)
	for _, o := range r.store.offices {
		if domain.NormalizeOfficeCode(o.Code) == code {
			o.PrimaryModel = office.PrimaryModel
			o.Fallback1 = office.Fallback1
			o.Fallback2 = office.Fallback2
			return nil
		}
	}
	r.store.offices = append(r.store.offices, cloneOffice(office))
	return nil
}

// -----------------------------------------------------------------------------
// Prompt Repository
// -----------------------------------------------------------------------------

type PromptRepo struct {
	store *MemoryStorage
}

func NewPromptRepo(store *MemoryStorage) *PromptRepo {
	return &PromptRepo{store: store}
}

func (r *PromptRepo) Get(ctx context.Context, key string) (*domain.PromptTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	tpl, ok := r.store.prompts[domain.NormalizePromptKey(key)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *tpl
	return &c, nil
}

func (r *PromptRepo) List(ctx context.Context) ([]*domain.PromptTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.PromptTemplate, 0, len(r.store.prompts))
	for _, tpl := range r.store.prompts {
		c := *tpl
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *PromptRepo) Upsert(ctx context.Context, tpl *domain.PromptTemplate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tpl.Key = domain.NormalizePromptKey(tpl.Key)
	tpl.UpdatedAt = time.Now().UTC()
	c := *tpl
	r.store.prompts[tpl.Key] = &c
	return nil
}

// -----------------------------------------------------------------------------
// Legislation Repository
// -----------------------------------------------------------------------------

type LegislationRepo struct {
	store *MemoryStorage
}

func NewLegislationRepo(store *MemoryStorage) *LegislationRepo {
	return &LegislationRepo{store: store}
}

// Add appends excerpts to the in-memory corpus.
func (r *LegislationRepo) Add(excerpts ...*domain.LegalExcerpt) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.legislation = append(r.store.legislation, excerpts...)
}

// Search matches excerpts containing any query word of 4+ letters.
func (r *LegislationRepo) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]*domain.LegalExcerpt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(w)) >= 4 {
			words = append(words, w)
		}
	}

	var out []*domain.LegalExcerpt
	for _, ex := range r.store.legislation {
		if limit > 0 && len(out) >= limit {
			break
		}
		haystack := strings.ToLower(ex.BaseLegal + " " + ex.Titulo + " " + ex.Texto)
		for _, w := range words {
			if strings.Contains(haystack, w) {
				c := *ex
				out = append(out, &c)
				break
			}
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Job Repository
// -----------------------------------------------------------------------------

type JobRepo struct {
	store *MemoryStorage
}

func NewJobRepo(store *MemoryStorage) *JobRepo {
	return &JobRepo{store: store}
}

func (r *JobRepo) Save(ctx context.Context, job *domain.Job) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *job
	r.store.jobs[job.ID] = &c
	return nil
}

func (r *JobRepo) Get(ctx context.Context, id string) (*domain.Job, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	job, ok := r.store.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *job
	return &c, nil
}

// DeleteJobsOlderThan removes finished jobs last updated before the threshold.
func (r *JobRepo) DeleteJobsOlderThan(ctx context.Context, before time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	deleted := 0
	for id, job := range r.store.jobs {
		if job.Finished() && job.UpdatedAt.Before(before) {
			delete(r.store.jobs, id)
			deleted++
		}
	}
	return deleted, nil
}
