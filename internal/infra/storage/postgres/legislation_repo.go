package postgres

import (
	"context"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
)

// LegislationRepo implements storage.LegislationRepository with Portuguese full-text search.
type LegislationRepo struct {
	db *DB
}

// NewLegislationRepo creates a new PostgreSQL legislation repository.
func NewLegislationRepo(db *DB) *LegislationRepo {
	return &LegislationRepo{db: db}
}

// Search returns up to limit active excerpts matching query, newest first.
func (r *LegislationRepo) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]*domain.LegalExcerpt, error) {
	if limit <= 0 {
		limit = 8
	}

	var rows []*domain.LegalExcerpt
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id,
		       COALESCE(indexador, '')  AS indexador,
		       base_legal,
		       COALESCE(titulo, '')     AS titulo,
		       COALESCE(artigo, '')     AS artigo,
		       COALESCE(jurisdicao, '') AS jurisdicao,
		       texto
		FROM public.legislacao_normas
		WHERE ativo = true AND searchable @@ plainto_tsquery('portuguese', $1)
		ORDER BY updated_at DESC, id DESC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, translate(err, "search legislation")
	}
	return rows, nil
}
