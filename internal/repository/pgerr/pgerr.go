// Package pgerr classifies Postgres errors the repositories translate into
// domain errors.
package pgerr

import (
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	invalidTextRepresentation = "22P02"
	foreignKeyViolation       = "23503"
	uniqueViolation           = "23505"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsInvalidText reports a value Postgres could not parse, such as a
// malformed uuid.
func IsInvalidText(err error) bool { return code(err) == invalidTextRepresentation }

func IsForeignKeyViolation(err error) bool { return code(err) == foreignKeyViolation }

func IsUniqueViolation(err error) bool { return code(err) == uniqueViolation }

// NotFound maps a missing row, or a lookup by an id that cannot exist, to
// domain.ErrNotFound. Other errors are returned unchanged.
func NotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || IsInvalidText(err) {
		return domain.ErrNotFound
	}
	return err
}
