package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

// SlugColumn is the column every slugged table indexes as unique.
const SlugColumn = "slug"

const pgUniqueViolation = "23505"

// uniqueMessages covers drivers whose errors we cannot match by type.
var uniqueMessages = []string{
	"unique constraint",
	"duplicate key",
	"sqlstate 23505",
}

// IsUniqueViolation reports whether err came from a unique index or primary
// key rejecting a write.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range uniqueMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// IsUniqueViolationOn reports whether err is a unique violation on column.
// SQLite names it as "table.column"; postgres names the constraint
// "table_column_key" and the key as "(column)".
func IsUniqueViolationOn(err error, column string) bool {
	if !IsUniqueViolation(err) || column == "" {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteNamesColumn(sqliteErr.Error(), column)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasSuffix(pgErr.ConstraintName, "_"+column+"_key") ||
			strings.HasPrefix(pgErr.Detail, "Key ("+column+")=")
	}
	msg := err.Error()
	return sqliteNamesColumn(msg, column) ||
		strings.Contains(msg, "_"+column+"_key\"") ||
		strings.Contains(msg, "Key ("+column+")=")
}

// sqliteNamesColumn matches "UNIQUE constraint failed: products.slug", which
// may list several columns separated by commas.
func sqliteNamesColumn(msg, column string) bool {
	_, columns, ok := strings.Cut(msg, "constraint failed:")
	if !ok {
		return false
	}
	for _, name := range strings.Split(columns, ",") {
		if strings.HasSuffix(strings.TrimSpace(name), "."+column) {
			return true
		}
	}
	return false
}

// MapConflict sorts unique violations. A violation on the slug column becomes
// slugs.ErrConflict so the slug generator can retry with a fresh candidate;
// any other unique key (the primary key, usually) becomes exists. Other
// errors pass through.
func MapConflict(err error, resource, slug string, exists error) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolationOn(err, SlugColumn):
		return fmt.Errorf("%s %q: %w", resource, slug, slugs.ErrConflict)
	case exists != nil && IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", exists, err)
	}
	return err
}
