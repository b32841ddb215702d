// Package testsupport opens throwaway databases for repository tests.
package testsupport

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-deepwood/internal/adapters/storage"
)

// NewBunDB opens an in-memory sqlite database private to t and creates a
// table for each model.
func NewBunDB(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := storage.CreateTables(ctx, db, models...); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}
