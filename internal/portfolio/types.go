package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-deepwood/internal/domain"
)

var (
	ErrTitleRequired    = errors.New("portfolio: title is required in at least one language")
	ErrSlugInvalid      = errors.New("portfolio: slug contains no usable characters")
	ErrSlugExists       = errors.New("portfolio: slug already exists")
	ErrProjectExists    = errors.New("portfolio: project already exists")
	ErrYearInvalid      = errors.New("portfolio: year is out of range")
	ErrProjectIDMissing = errors.New("portfolio: project id required")
	ErrInvalidProject   = errors.New("portfolio: invalid project")
)

// Project is a completed commission shown in the portfolio.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:pr"`

	ID          uuid.UUID     `bun:",pk,type:uuid"          json:"id"`
	Slug        string        `bun:"slug,notnull,unique"    json:"slug"`
	Title       domain.Text   `bun:"embed:title_"           json:"title"`
	Summary     domain.Text   `bun:"embed:summary_"         json:"summary"`
	Description domain.Text   `bun:"embed:description_"     json:"description"`
	Location    domain.Text   `bun:"embed:location_"        json:"location"`
	Year        int           `bun:"year"                   json:"year,omitempty"`
	Images      []string      `bun:"images,type:jsonb"      json:"images,omitempty"`
	Featured    bool          `bun:"featured,notnull,default:false" json:"featured"`
	Status      domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ListOptions filters and pages List results. Zero values match everything.
type ListOptions struct {
	Featured *bool
	Status   domain.Status
	Year     int
	Limit    int
	Offset   int
}

func (o ListOptions) matches(p *Project) bool {
	if o.Featured != nil && p.Featured != *o.Featured {
		return false
	}
	if o.Status != "" && p.Status != o.Status {
		return false
	}
	if o.Year != 0 && p.Year != o.Year {
		return false
	}
	return true
}

// Repository persists projects. Create and Update return an error wrapping
// slugs.ErrConflict when the slug is already taken.
type Repository interface {
	Create(ctx context.Context, record *Project) (*Project, error)
	Update(ctx context.Context, record *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]*Project, int, error)
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

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func cloneProject(src *Project) *Project {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Images = slices.Clone(src.Images)
	return &copied
}

// sortProjects orders by year, newest first, then by creation time and slug.
func sortProjects(items []*Project) {
	slices.SortFunc(items, func(a, b *Project) int {
		if a.Year != b.Year {
			return b.Year - a.Year
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.Slug < b.Slug:
			return -1
		case a.Slug > b.Slug:
			return 1
		}
		return 0
	})
}
