package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/augleao/frontend-dev-sub000/internal/infra/storage"
)

const (
	codeUndefinedTable  = "42P01"
	codeInvalidSchema   = "3F000"
	codeInvalidCatalog  = "3D000"
	codeCrossDatabase   = "0A000" // cross-database references are not implemented
	codeUndefinedColumn = "42703"
)

// sqlState extracts the SQLSTATE from either driver's error type.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// translate maps driver errors onto storage sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	switch sqlState(err) {
	case codeUndefinedTable, codeInvalidSchema, codeInvalidCatalog, codeCrossDatabase, codeUndefinedColumn:
		return fmt.Errorf("failed to %s: %w: %w", op, storage.ErrUndefinedRelation, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
