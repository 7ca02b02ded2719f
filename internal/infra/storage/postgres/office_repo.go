package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
)

// DefaultOfficeTables are consulted in order by the resolver.
var DefaultOfficeTables = []string{"db_yq0x.public.serventia", "public.serventia"}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// ValidateTableName accepts up to three dot-separated SQL identifiers.
func ValidateTableName(table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

const officeColumns = `
	COALESCE(codigo_serventia::text, '') AS codigo_serventia,
	COALESCE(nome_abreviado, '')          AS nome_abreviado,
	COALESCE(ia_agent, '')                AS ia_agent,
	COALESCE(ia_agent_fallback1, '')      AS ia_agent_fallback1,
	COALESCE(ia_agent_fallback2, '')      AS ia_agent_fallback2`

// OfficeRepo implements storage.OfficeRepository for one office table.
type OfficeRepo struct {
	db    *DB
	table string
}

// NewOfficeRepo creates an office repository reading from table.
func NewOfficeRepo(db *DB, table string) (*OfficeRepo, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}
	return &OfficeRepo{db: db, table: table}, nil
}

// Source returns the table name.
func (r *OfficeRepo) Source() string {
	return r.table
}

func (r *OfficeRepo) getOne(ctx context.Context, op, where string, args ...any) (*domain.Office, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", officeColumns, r.table, where)

	var office domain.Office
	if err := r.db.GetContext(ctx, &office, query, args...); err != nil {
		return nil, translate(err, op)
	}
	return &office, nil
}

// FindByCode finds an office by its digits-only code.
func (r *OfficeRepo) FindByCode(ctx context.Context, code string) (*domain.Office, error) {
	return r.getOne(ctx, "find office by code",
		`regexp_replace(codigo_serventia::text, '\D', '', 'g') = $1`,
		domain.NormalizeOfficeCode(code))
}

// FindByName finds an office by case-insensitive short name.
func (r *OfficeRepo) FindByName(ctx context.Context, name string) (*domain.Office, error) {
	return r.getOne(ctx, "find office by name", `lower(nome_abreviado) = lower($1)`, name)
}

// FindAnyConfigured returns the first office, by name, with an agent configured.
func (r *OfficeRepo) FindAnyConfigured(ctx context.Context) (*domain.Office, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE COALESCE(trim(ia_agent), '') <> ''
		   OR COALESCE(trim(ia_agent_fallback1), '') <> ''
		   OR COALESCE(trim(ia_agent_fallback2), '') <> ''
		ORDER BY nome_abreviado
		LIMIT 1`, officeColumns, r.table)

	var office domain.Office
	if err := r.db.GetContext(ctx, &office, query); err != nil {
		return nil, translate(err, "find configured office")
	}
	return &office, nil
}

// List returns every office ordered by name.
func (r *OfficeRepo) List(ctx context.Context) ([]*domain.Office, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY nome_abreviado", officeColumns, r.table)

	var offices []*domain.Office
	if err := r.db.SelectContext(ctx, &offices, query); err != nil {
		return nil, translate(err, "list offices")
	}
	return offices, nil
}

// UpsertAgents updates the agents of the office matching office.Code,
// inserting a new row when none matches.
func (r *OfficeRepo) UpsertAgents(ctx context.Context, office *domain.Office) error {
	code := domain.NormalizeOfficeCode(office.Code)
	if code == "" {
		return errors.New("office code is required")
	}

	update := fmt.Sprintf(`UPDATE %s
		SET ia_agent = NULLIF($2, ''), ia_agent_fallback1 = NULLIF($3, ''), ia_agent_fallback2 = NULLIF($4, '')
		WHERE regexp_replace(codigo_serventia::text, '\D', '', 'g') = $1`, r.table)

	res, err := r.db.ExecContext(ctx, update, code, office.PrimaryModel, office.Fallback1, office.Fallback2)
	if err != nil {
		return translate(err, "update office agents")
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s
		(codigo_serventia, nome_abreviado, ia_agent, ia_agent_fallback1, ia_agent_fallback2)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))`, r.table)
	_, err = r.db.ExecContext(ctx, insert,
		office.Code, office.Name, office.PrimaryModel, office.Fallback1, office.Fallback2)
	if err != nil {
		return translate(err, "insert office")
	}
	return nil
}
