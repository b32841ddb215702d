package orders

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-deepwood/internal/adapters/storage"
)

func NewOrderRepository(db *bun.DB) repository.Repository[*Order] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Order]{
		NewRecord: func() *Order { return &Order{} },
		GetID: func(o *Order) uuid.UUID {
			return o.ID
		},
		SetID: func(o *Order, id uuid.UUID) {
			o.ID = id
		},
		GetIdentifier: func() string {
			return "number"
		},
		GetIdentifierValue: func(o *Order) string {
			return o.Number
		},
	})
}

func Models() []any {
	return []any{(*Order)(nil)}
}

// BunRepository stores orders without a cache; order reads must see every write.
type BunRepository struct {
	repo repository.Repository[*Order]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewOrderRepository(db)}
}

func (r *BunRepository) Create(ctx context.Context, record *Order) (*Order, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		if storage.IsUniqueViolationOn(err, "number") {
			return nil, fmt.Errorf("%w: %s", ErrNumberAlreadyExists, record.Number)
		}
		return nil, fmt.Errorf("order repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Order) (*Order, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	rec, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return rec, nil
}

func (r *BunRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	rec, err := r.repo.GetByIdentifier(ctx, number)
	if err != nil {
		return nil, mapRepositoryError(err, number)
	}
	return rec, nil
}

func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*Order, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if opts.Status != "" {
				q = q.Where("?TableAlias.status = ?", opts.Status)
			}
			return q.OrderExpr("?TableAlias.created_at DESC").OrderExpr("?TableAlias.number ASC")
		}),
	}
	if opts.Limit > 0 || opts.Offset > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, opts.Offset))
	}
	records, total, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, fmt.Errorf("order repository error: %w", err)
	}
	return records, total, nil
}

func mapRepositoryError(err error, key string) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "order", Key: key}
	}
	return fmt.Errorf("order repository error: %w", err)
}
