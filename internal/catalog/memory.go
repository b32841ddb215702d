package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

// MemoryRepository is an in-memory product store for tests and the memory provider.
type MemoryRepository struct {
	mu        sync.RWMutex
	products  map[uuid.UUID]*Product
	slugIndex map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products:  make(map[uuid.UUID]*Product),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[record.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrProductExists, record.ID)
	}
	if _, ok := m.slugIndex[record.Slug]; ok {
		return nil, fmt.Errorf("product %q: %w", record.Slug, slugs.ErrConflict)
	}
	copied := cloneProduct(record)
	m.products[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProduct(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "product", Key: record.ID.String()}
	}
	if owner, taken := m.slugIndex[record.Slug]; taken && owner != record.ID {
		return nil, fmt.Errorf("product %q: %w", record.Slug, slugs.ErrConflict)
	}
	delete(m.slugIndex, existing.Slug)
	copied := cloneProduct(record)
	m.products[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProduct(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.products[id]
	if !ok {
		return nil, &NotFoundError{Resource: "product", Key: id.String()}
	}
	return cloneProduct(rec), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "product", Key: slug}
	}
	return cloneProduct(m.products[id]), nil
}

func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*Product, 0, len(m.products))
	for _, rec := range m.products {
		if opts.matches(rec) {
			matched = append(matched, cloneProduct(rec))
		}
	}
	sortProducts(matched)
	return paginate(matched, opts.Limit, opts.Offset), len(matched), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.products[id]
	if !ok {
		return &NotFoundError{Resource: "product", Key: id.String()}
	}
	delete(m.slugIndex, rec.Slug)
	delete(m.products, id)
	return nil
}

func (m *MemoryRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.slugIndex[slug]
	return ok, nil
}
