package di

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/goliatone/go-deepwood/internal/adapters/mongostore"
	"github.com/goliatone/go-deepwood/internal/adapters/storage"
	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/orders"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/runtimeconfig"
	"github.com/goliatone/go-deepwood/internal/settings"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

func openBunDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch normalize(cfg.Dialect) {
	case "postgres":
		sqldb, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite serialises writers; one connection avoids SQLITE_BUSY
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}

// Models lists every bun model the storefront persists.
func Models() []any {
	models := append([]any{}, catalog.Models()...)
	models = append(models, portfolio.Models()...)
	models = append(models, orders.Models()...)
	return append(models, settings.Model())
}

func migrate(ctx context.Context, db *bun.DB) error {
	if err := storage.CreateTables(ctx, db, Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func openMongo(ctx context.Context, cfg runtimeconfig.MongoConfig, logger interfaces.Logger) (*mongo.Client, *mongo.Database, error) {
	db, err := mongostore.Open(ctx, mongostore.Config(cfg), logger)
	if err != nil {
		return nil, nil, err
	}
	return db.Client(), db, nil
}

func healthcheck(ctx context.Context, db *bun.DB, client *mongo.Client) error {
	switch {
	case db != nil:
		return db.PingContext(ctx)
	case client != nil:
		return mongostore.Healthcheck(client)(ctx)
	default:
		return nil
	}
}
