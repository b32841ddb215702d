package catalog

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-deepwood/internal/adapters/storage"
)

const productNamespace = "product"

// BunRepository stores products through go-repository-bun with optional caching.
type BunRepository struct {
	db    *bun.DB
	cache storage.Cached[*Product]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps reads with go-repository-cache when both
// collaborators are provided. Writes invalidate the product namespace.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:    db,
		cache: storage.WrapWithCache(NewProductRepository(db), productNamespace, cacheService, serializer),
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Product) (*Product, error) {
	created, err := r.cache.Repo.Create(ctx, record)
	if err != nil {
		return nil, storage.MapConflict(err, productNamespace, record.Slug, ErrProductExists)
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunRepository) Update(ctx context.Context, record *Product) (*Product, error) {
	updated, err := r.cache.Repo.Update(ctx, record)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, storage.MapConflict(err, productNamespace, record.Slug, ErrProductExists)
		}
		return nil, mapRepositoryError(err, productNamespace, record.ID.String())
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	result, err := r.cache.Repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, productNamespace, id.String())
	}
	return result, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	result, err := r.cache.Repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, productNamespace, slug)
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*Product, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if opts.Category != "" {
				q = q.Where("?TableAlias.category = ?", opts.Category)
			}
			if opts.Featured != nil {
				q = q.Where("?TableAlias.featured = ?", *opts.Featured)
			}
			if opts.Status != "" {
				q = q.Where("?TableAlias.status = ?", opts.Status)
			}
			return q.OrderExpr("?TableAlias.created_at DESC").OrderExpr("?TableAlias.slug ASC")
		}),
	}
	if opts.Limit > 0 || opts.Offset > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, opts.Offset))
	}
	records, total, err := r.cache.Repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", productNamespace, err)
	}
	return records, total, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Repo.Delete(ctx, &Product{ID: id}); err != nil {
		return mapRepositoryError(err, productNamespace, id.String())
	}
	return r.InvalidateCache(ctx)
}

// SlugExists queries the table directly so a cached miss never hides a new row.
func (r *BunRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.db.NewSelect().
		Model((*Product)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
}

func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	return r.cache.Invalidate(ctx)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
