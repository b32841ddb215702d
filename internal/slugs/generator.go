package slugs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

const (
	DefaultMaxAttempts     = 100
	DefaultConflictRetries = 3
	DefaultBackoffInitial  = 20 * time.Millisecond
	DefaultBackoffMax      = 500 * time.Millisecond
)

// Collection answers whether a slug is already used within one entity type.
type Collection interface {
	Exists(ctx context.Context, slug string) (bool, error)
}

// CollectionFunc adapts a function to Collection.
type CollectionFunc func(ctx context.Context, slug string) (bool, error)

func (f CollectionFunc) Exists(ctx context.Context, slug string) (bool, error) {
	return f(ctx, slug)
}

// PersistFunc stores an entity under slug. It must return an error wrapping
// ErrConflict when the store rejects the slug as a duplicate.
type PersistFunc func(ctx context.Context, slug string) error

// Option configures a Generator.
type Option func(*Generator)

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(g *Generator) {
		g.normalizer = n
	}
}

// WithMaxAttempts bounds the collision loop. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithConflictRetries sets how many times Reserve retries after ErrConflict.
func WithConflictRetries(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.conflictRetries = n
		}
	}
}

// WithBackoff sets the exponential backoff window used by Reserve.
func WithBackoff(initial, maximum time.Duration) Option {
	return func(g *Generator) {
		if initial > 0 {
			g.backoffInitial = initial
		}
		if maximum > 0 {
			g.backoffMax = maximum
		}
	}
}

// WithLogger sets the logger used for collision and conflict events.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		g.logger = logging.Ensure(logger)
	}
}

// Generator produces slugs that are unique within a Collection.
type Generator struct {
	normalizer      Normalizer
	maxAttempts     int
	conflictRetries int
	backoffInitial  time.Duration
	backoffMax      time.Duration
	logger          interfaces.Logger
}

// NewGenerator builds a Generator with defaults applied before opts.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		maxAttempts:     DefaultMaxAttempts,
		conflictRetries: DefaultConflictRetries,
		backoffInitial:  DefaultBackoffInitial,
		backoffMax:      DefaultBackoffMax,
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

var defaultGenerator = NewGenerator()

// Normalize uses the zero Normalizer.
func Normalize(text string, lang Language) string {
	return defaultGenerator.Normalize(text, lang)
}

// MakeUnique uses a Generator with default settings.
func MakeUnique(ctx context.Context, text string, collection Collection, lang Language) (string, error) {
	return defaultGenerator.MakeUnique(ctx, text, collection, lang)
}

// Normalizer returns the configured normalizer.
func (g *Generator) Normalizer() Normalizer {
	return g.normalizer
}

func (g *Generator) Normalize(text string, lang Language) string {
	return g.normalizer.Normalize(text, lang)
}

// MakeUnique normalizes text and probes collection with base, base-1,
// base-2, ... until a free candidate is found. The result was free when
// checked; the store's unique index remains the authority.
func (g *Generator) MakeUnique(ctx context.Context, text string, collection Collection, lang Language) (string, error) {
	base := g.normalizer.Normalize(text, lang)
	if base == "" {
		return "", ErrEmptySlug
	}
	return g.unique(ctx, base, collection)
}

func (g *Generator) unique(ctx context.Context, base string, collection Collection) (string, error) {
	candidate := base
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := collection.Exists(ctx, candidate)
		if err != nil {
			g.logger.Error("slug.lookup_failed", "slug", candidate, "error", err)
			return "", &LookupError{Slug: candidate, Err: err}
		}
		if !taken {
			if attempt > 1 {
				g.logger.Debug("slug.collision_resolved", "base", base, "slug", candidate, "attempts", attempt)
			}
			return candidate, nil
		}
		candidate = g.normalizer.suffixed(base, attempt)
	}
	g.logger.Warn("slug.exhausted", "base", base, "attempts", g.maxAttempts)
	return "", &ExhaustedError{Base: base, Attempts: g.maxAttempts}
}

// Reserve runs MakeUnique and hands the result to persist. When persist
// reports ErrConflict, another writer took the slug between check and
// write; Reserve backs off and tries again with a fresh candidate.
func (g *Generator) Reserve(ctx context.Context, text string, lang Language, collection Collection, persist PersistFunc) (string, error) {
	if persist == nil {
		return g.MakeUnique(ctx, text, collection, lang)
	}

	var reserved string
	attempts := 0
	operation := func() error {
		attempts++
		candidate, err := g.MakeUnique(ctx, text, collection, lang)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := persist(ctx, candidate); err != nil {
			if errors.Is(err, ErrConflict) {
				g.logger.Warn("slug.conflict", "slug", candidate, "attempt", attempts)
				return err
			}
			return backoff.Permanent(err)
		}
		reserved = candidate
		return nil
	}

	if err := backoff.Retry(operation, g.policy(ctx)); err != nil {
		return "", err
	}
	if attempts > 1 {
		g.logger.Info("slug.reserved", "slug", reserved, "attempts", attempts)
	}
	return reserved, nil
}

func (g *Generator) policy(ctx context.Context) backoff.BackOffContext {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = g.backoffInitial
	expo.MaxInterval = g.backoffMax
	expo.MaxElapsedTime = 0
	expo.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(expo, uint64(g.conflictRetries)), ctx)
}

// Candidate is one source text for a slug together with its language.
type Candidate struct {
	Text     string
	Language Language
}

// ReserveFirst tries candidates in order and reserves a slug from the first
// one that normalizes to a non-empty base.
func (g *Generator) ReserveFirst(ctx context.Context, candidates []Candidate, collection Collection, persist PersistFunc) (string, error) {
	for _, c := range candidates {
		slug, err := g.Reserve(ctx, c.Text, c.Language, collection, persist)
		if errors.Is(err, ErrEmptySlug) {
			continue
		}
		return slug, err
	}
	return "", ErrEmptySlug
}

// Claim normalizes an explicitly requested slug and persists it as is.
// Unlike Reserve it never appends a counter: a taken slug fails with
// ErrConflict.
func (g *Generator) Claim(ctx context.Context, requested string, lang Language, collection Collection, persist PersistFunc) (string, error) {
	slug := g.normalizer.Normalize(requested, lang)
	if slug == "" {
		return "", ErrEmptySlug
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	taken, err := collection.Exists(ctx, slug)
	if err != nil {
		g.logger.Error("slug.lookup_failed", "slug", slug, "error", err)
		return "", &LookupError{Slug: slug, Err: err}
	}
	if taken {
		return "", fmt.Errorf("%w: %q", ErrConflict, slug)
	}
	if persist != nil {
		if err := persist(ctx, slug); err != nil {
			return "", err
		}
	}
	return slug, nil
}

// Excluding wraps collection so that current reads as free. Use it when an
// entity regenerates its own slug.
func Excluding(collection Collection, current string) Collection {
	if current == "" {
		return collection
	}
	return CollectionFunc(func(ctx context.Context, slug string) (bool, error) {
		if slug == current {
			return false, nil
		}
		return collection.Exists(ctx, slug)
	})
}
