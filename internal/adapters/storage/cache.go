package storage

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
)

// Cached wraps a bun repository with go-repository-cache and remembers the
// key prefix so writes can drop stale entries.
type Cached[T any] struct {
	Repo         repository.Repository[T]
	cacheService cache.CacheService
	prefix       string
}

// WrapWithCache returns base unchanged when either cache collaborator is nil.
func WrapWithCache[T any](base repository.Repository[T], namespace string, cacheService cache.CacheService, serializer cache.KeySerializer) Cached[T] {
	if cacheService == nil || serializer == nil {
		return Cached[T]{Repo: base}
	}
	return Cached[T]{
		Repo:         repositorycache.New(base, cacheService, serializer),
		cacheService: cacheService,
		prefix:       CachePrefix(namespace),
	}
}

// Enabled reports whether reads go through the cache.
func (c Cached[T]) Enabled() bool {
	return c.cacheService != nil
}

// Invalidate drops every cached entry under the namespace.
func (c Cached[T]) Invalidate(ctx context.Context) error {
	if c.cacheService == nil || c.prefix == "" {
		return nil
	}
	return c.cacheService.DeleteByPrefix(ctx, c.prefix)
}

func CachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
