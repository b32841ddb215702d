package storage

import (
	"context"
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
)

// CreateTables creates a table for each model when it does not exist yet.
func CreateTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %s: %w", reflect.TypeOf(model), err)
		}
	}
	return nil
}
