package storage

import (
	"context"
	"errors"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
)

var (
	// ErrNotFound is returned when a record doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUndefinedRelation is returned when the queried schema or table doesn't exist
	ErrUndefinedRelation = errors.New("undefined relation")
)

// OfficeRepository reads the AI agent configuration of notary offices.
// Each instance is bound to one office table.
type OfficeRepository interface {
	// Source names the table the repository reads from
	Source() string

	// FindByCode finds an office by its digits-only code
	FindByCode(ctx context.Context, code string) (*domain.Office, error)

	// FindByName finds an office by case-insensitive short name
	FindByName(ctx context.Context, name string) (*domain.Office, error)

	// FindAnyConfigured returns an office with at least one agent configured
	FindAnyConfigured(ctx context.Context) (*domain.Office, error)

	// List returns every office
	List(ctx context.Context) ([]*domain.Office, error)

	// UpsertAgents sets the agents of an office, creating it if needed
	UpsertAgents(ctx context.Context, office *domain.Office) error
}

// PromptRepository handles prompt template storage
type PromptRepository interface {
	// Get retrieves a template by lowercase key
	Get(ctx context.Context, key string) (*domain.PromptTemplate, error)

	// List returns all templates ordered by key
	List(ctx context.Context) ([]*domain.PromptTemplate, error)

	// Upsert creates or replaces a template
	Upsert(ctx context.Context, tpl *domain.PromptTemplate) error
}

// LegislationRepository searches legislation excerpts
type LegislationRepository interface {
	// Search runs a full-text query and returns at most limit active excerpts
	Search(ctx context.Context, query string, limit int) ([]*domain.LegalExcerpt, error)
}

// JobRepository persists async analysis jobs
type JobRepository interface {
	// Save stores the job, replacing any previous version
	Save(ctx context.Context, job *domain.Job) error

	// Get retrieves a job by ID
	Get(ctx context.Context, id string) (*domain.Job, error)
}
