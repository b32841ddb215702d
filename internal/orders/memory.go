package orders

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu          sync.RWMutex
	orders      map[uuid.UUID]*Order
	numberIndex map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:      make(map[uuid.UUID]*Order),
		numberIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Order) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.numberIndex[record.Number]; ok {
		return nil, ErrNumberAlreadyExists
	}
	copied := cloneOrder(record)
	m.orders[copied.ID] = copied
	m.numberIndex[copied.Number] = copied.ID
	return cloneOrder(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Order) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.orders[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "order", Key: record.ID.String()}
	}
	delete(m.numberIndex, existing.Number)
	copied := cloneOrder(record)
	m.orders[copied.ID] = copied
	m.numberIndex[copied.Number] = copied.ID
	return cloneOrder(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.orders[id]
	if !ok {
		return nil, &NotFoundError{Resource: "order", Key: id.String()}
	}
	return cloneOrder(rec), nil
}

func (m *MemoryRepository) GetByNumber(_ context.Context, number string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.numberIndex[number]
	if !ok {
		return nil, &NotFoundError{Resource: "order", Key: number}
	}
	return cloneOrder(m.orders[id]), nil
}

func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*Order, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Order, 0, len(m.orders))
	for _, rec := range m.orders {
		if opts.Status == "" || rec.Status == opts.Status {
			out = append(out, cloneOrder(rec))
		}
	}
	slices.SortFunc(out, func(a, b *Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	total := len(out)
	if opts.Offset >= total {
		return []*Order{}, total, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, total, nil
}
