package portfolio

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

const projectNamespace = "project"

type BunRepository struct {
	db    *bun.DB
	cache storage.Cached[*Project]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:    db,
		cache: storage.WrapWithCache(NewProjectRepository(db), projectNamespace, cacheService, serializer),
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	created, err := r.cache.Repo.Create(ctx, record)
	if err != nil {
		return nil, storage.MapConflict(err, projectNamespace, record.Slug, ErrProjectExists)
	}
	return created, r.cache.Invalidate(ctx)
}

func (r *BunRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	updated, err := r.cache.Repo.Update(ctx, record)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, storage.MapConflict(err, projectNamespace, record.Slug, ErrProjectExists)
		}
		return nil, mapRepositoryError(err, projectNamespace, record.ID.String())
	}
	return updated, r.cache.Invalidate(ctx)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	result, err := r.cache.Repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, projectNamespace, id.String())
	}
	return result, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	result, err := r.cache.Repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, projectNamespace, slug)
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*Project, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if opts.Featured != nil {
				q = q.Where("?TableAlias.featured = ?", *opts.Featured)
			}
			if opts.Status != "" {
				q = q.Where("?TableAlias.status = ?", opts.Status)
			}
			if opts.Year != 0 {
				q = q.Where("?TableAlias.year = ?", opts.Year)
			}
			return q.OrderExpr("?TableAlias.year DESC").
				OrderExpr("?TableAlias.created_at DESC").
				OrderExpr("?TableAlias.slug ASC")
		}),
	}
	if opts.Limit > 0 || opts.Offset > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, opts.Offset))
	}
	records, total, err := r.cache.Repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", projectNamespace, err)
	}
	return records, total, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Repo.Delete(ctx, &Project{ID: id}); err != nil {
		return mapRepositoryError(err, projectNamespace, id.String())
	}
	return r.cache.Invalidate(ctx)
}

func (r *BunRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.db.NewSelect().
		Model((*Project)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
