package settings

import (
	"context"
	"sync"
)

// MemoryRepository stores settings in-memory.
type MemoryRepository struct {
	mu          sync.RWMutex
	settings    *Settings
	broadcaster *broadcaster
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{broadcaster: newBroadcaster()}
}

// Get returns the stored settings or ErrSettingsNotFound.
func (r *MemoryRepository) Get(context.Context) (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return Settings{}, ErrSettingsNotFound
	}
	return cloneSettings(*r.settings), nil
}

// Upsert stores settings and emits a change event when something changed.
func (r *MemoryRepository) Upsert(_ context.Context, s Settings) (Settings, error) {
	r.mu.Lock()
	created := r.settings == nil
	unchanged := !created && equalSettings(*r.settings, s)
	copied := cloneSettings(s)
	r.settings = &copied
	r.mu.Unlock()

	if unchanged {
		return cloneSettings(s), nil
	}
	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(changeType, s)
	return cloneSettings(s), nil
}

func (r *MemoryRepository) Delete(context.Context) error {
	r.mu.Lock()
	if r.settings == nil {
		r.mu.Unlock()
		return ErrSettingsNotFound
	}
	r.settings = nil
	r.mu.Unlock()

	r.broadcaster.Broadcast(ChangeDeleted, Settings{})
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}
