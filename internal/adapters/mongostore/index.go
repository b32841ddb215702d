package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

// EnsureUniqueIndex creates a unique ascending index on field named
// field_unique. Creating an index that already exists with the same options
// is a no-op on the server.
func EnsureUniqueIndex(ctx context.Context, coll *mongo.Collection, field string) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(uniqueIndexName(field)),
	}
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("mongostore: create unique index %s.%s: %w", coll.Name(), field, err)
	}
	return nil
}

func uniqueIndexName(field string) string {
	return field + "_unique"
}

// IsDuplicateOn reports whether err is a duplicate key error raised by the
// index EnsureUniqueIndex created for field. The server names the index in
// the message: "E11000 duplicate key error collection: db.products index:
// slug_unique dup key: { slug: "oak" }".
func IsDuplicateOn(err error, field string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "index: "+uniqueIndexName(field)+" ") ||
		strings.HasSuffix(msg, "index: "+uniqueIndexName(field))
}

// MapConflict turns a duplicate on the slug index into slugs.ErrConflict and
// any other duplicate key (the _id, usually) into exists.
func MapConflict(err error, resource, slug string, exists error) error {
	switch {
	case err == nil:
		return nil
	case IsDuplicateOn(err, "slug"):
		return fmt.Errorf("%s %q: %w", resource, slug, slugs.ErrConflict)
	case exists != nil && mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", exists, err)
	}
	return err
}

// IsNotFound reports whether err means a single-document read matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// Page converts limit and offset to find options sorted by sortField.
func Page(sortField string, descending bool, limit, offset int) *options.FindOptionsBuilder {
	order := 1
	if descending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: order}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	return opts
}
