package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"

	invalidTextRepresentation = "22P02"
)

// pgErrorCode returns the SQLSTATE and constraint of err, if it came from PostgreSQL.
func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == uniqueViolation
}

// isNotFound treats a malformed UUID like a missing row, so callers passing
// arbitrary path values get a not-found error instead of a 500.
func isNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	code, _ := pgErrorCode(err)
	return code == invalidTextRepresentation
}
