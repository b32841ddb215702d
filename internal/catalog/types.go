package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-deepwood/internal/domain"
)

var (
	ErrNameRequired     = errors.New("catalog: name is required in at least one language")
	ErrSlugInvalid      = errors.New("catalog: slug contains no usable characters")
	ErrSlugExists       = errors.New("catalog: slug already exists")
	ErrProductExists    = errors.New("catalog: product already exists")
	ErrPriceInvalid     = errors.New("catalog: price must not be negative")
	ErrProductIDMissing = errors.New("catalog: product id required")
	ErrInvalidProduct   = errors.New("catalog: invalid product")
	ErrAttributesSchema = errors.New("catalog: attributes do not match schema")
)

// Product is a piece of furniture listed in the catalog.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid"                json:"id"`
	Slug        string         `bun:"slug,notnull,unique"          json:"slug"`
	Name        domain.Text    `bun:"embed:name_"                  json:"name"`
	Description domain.Text    `bun:"embed:description_"          json:"description"`
	Category    string         `bun:"category"                     json:"category,omitempty"`
	Price       int64          `bun:"price,notnull"                json:"price"`
	Currency    string         `bun:"currency,notnull"             json:"currency"`
	Images      []string       `bun:"images,type:jsonb"            json:"images,omitempty"`
	Attributes  map[string]any `bun:"attributes,type:jsonb"        json:"attributes,omitempty"`
	Featured    bool           `bun:"featured,notnull,default:false" json:"featured"`
	Status      domain.Status  `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ListOptions filters and pages List results. Zero values match everything.
type ListOptions struct {
	Category string
	Featured *bool
	Status   domain.Status
	Limit    int
	Offset   int
}

func (o ListOptions) matches(p *Product) bool {
	if o.Category != "" && p.Category != o.Category {
		return false
	}
	if o.Featured != nil && p.Featured != *o.Featured {
		return false
	}
	if o.Status != "" && p.Status != o.Status {
		return false
	}
	return true
}

// Repository persists products. Create and Update return an error wrapping
// slugs.ErrConflict when the slug is already taken.
type Repository interface {
	Create(ctx context.Context, record *Product) (*Product, error)
	Update(ctx context.Context, record *Product) (*Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func cloneProduct(src *Product) *Product {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Images = slices.Clone(src.Images)
	if src.Attributes != nil {
		copied.Attributes = maps.Clone(src.Attributes)
	}
	return &copied
}

// sortProducts orders newest first, then by slug for a stable page order.
func sortProducts(items []*Product) {
	slices.SortFunc(items, func(a, b *Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.Slug < b.Slug {
			return -1
		}
		if a.Slug > b.Slug {
			return 1
		}
		return 0
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
