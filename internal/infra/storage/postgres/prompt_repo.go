package postgres

import (
	"context"
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
)

// PromptRepo implements storage.PromptRepository using PostgreSQL.
type PromptRepo struct {
	db *DB
}

// NewPromptRepo creates a new PostgreSQL prompt repository.
func NewPromptRepo(db *DB) *PromptRepo {
	return &PromptRepo{db: db}
}

// Get retrieves a template by key.
func (r *PromptRepo) Get(ctx context.Context, key string) (*domain.PromptTemplate, error) {
	var tpl domain.PromptTemplate
	err := r.db.GetContext(ctx, &tpl,
		`SELECT indexador, prompt, updated_at FROM public.ia_prompts WHERE indexador = $1`,
		domain.NormalizePromptKey(key))
	if err != nil {
		return nil, translate(err, "get prompt")
	}
	return &tpl, nil
}

// List returns all templates ordered by key.
func (r *PromptRepo) List(ctx context.Context) ([]*domain.PromptTemplate, error) {
	var tpls []*domain.PromptTemplate
	err := r.db.SelectContext(ctx, &tpls,
		`SELECT indexador, prompt, updated_at FROM public.ia_prompts ORDER BY indexador`)
	if err != nil {
		return nil, translate(err, "list prompts")
	}
	return tpls, nil
}

// Upsert creates or replaces a template. Key is lowercased and UpdatedAt set.
func (r *PromptRepo) Upsert(ctx context.Context, tpl *domain.PromptTemplate) error {
	tpl.Key = domain.NormalizePromptKey(tpl.Key)
	tpl.UpdatedAt = time.Now().UTC()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO public.ia_prompts (indexador, prompt, updated_at)
		VALUES (:indexador, :prompt, :updated_at)
		ON CONFLICT (indexador) DO UPDATE
		SET prompt = EXCLUDED.prompt, updated_at = EXCLUDED.updated_at`, tpl)
	if err != nil {
		return translate(err, "upsert prompt")
	}
	return nil
}
