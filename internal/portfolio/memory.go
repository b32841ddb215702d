package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

// MemoryRepository is an in-memory project store.
type MemoryRepository struct {
	mu        sync.RWMutex
	projects  map[uuid.UUID]*Project
	slugIndex map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects:  make(map[uuid.UUID]*Project),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[record.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, record.ID)
	}
	if _, ok := m.slugIndex[record.Slug]; ok {
		return nil, fmt.Errorf("project %q: %w", record.Slug, slugs.ErrConflict)
	}
	copied := cloneProject(record)
	m.projects[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.projects[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: record.ID.String()}
	}
	if owner, taken := m.slugIndex[record.Slug]; taken && owner != record.ID {
		return nil, fmt.Errorf("project %q: %w", record.Slug, slugs.ErrConflict)
	}
	delete(m.slugIndex, existing.Slug)
	copied := cloneProject(record)
	m.projects[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.projects[id]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: id.String()}
	}
	return cloneProject(rec), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: slug}
	}
	return cloneProject(m.projects[id]), nil
}

func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*Project, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*Project, 0, len(m.projects))
	for _, rec := range m.projects {
		if opts.matches(rec) {
			matched = append(matched, cloneProject(rec))
		}
	}
	sortProjects(matched)
	total := len(matched)
	if opts.Offset >= total {
		return []*Project{}, total, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, total, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.projects[id]
	if !ok {
		return &NotFoundError{Resource: "project", Key: id.String()}
	}
	delete(m.slugIndex, rec.Slug)
	delete(m.projects, id)
	return nil
}

func (m *MemoryRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.slugIndex[slug]
	return ok, nil
}
