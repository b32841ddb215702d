package settings

import (
	"context"
	"sync"
)

// ChangeType enumerates settings change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports settings mutations to subscribers.
type ChangeEvent struct {
	Type     ChangeType
	Settings Settings
}

// broadcaster fans events out to subscribers without blocking; a slow
// subscriber misses events rather than stalling writers.
type broadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan ChangeEvent
	nextID   uint64
}

func newBroadcaster() *broadcaster {
	return &broadcaster{watchers: make(map[uint64]chan ChangeEvent)}
}

func (b *broadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan ChangeEvent)
		close(ch)
		return ch, nil
	}
	ch := make(chan ChangeEvent, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

func (b *broadcaster) Broadcast(changeType ChangeType, s Settings) {
	evt := ChangeEvent{Type: changeType, Settings: cloneSettings(s)}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
