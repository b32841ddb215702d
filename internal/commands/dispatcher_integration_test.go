package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

type reserveMessage struct {
	Name string
}

func (reserveMessage) Type() string { return "deepwood.test.reserve" }

func (reserveMessage) Validate() error { return nil }

// flakyCollection fails the first failures lookups, then answers from taken.
type flakyCollection struct {
	mu       sync.Mutex
	failures int
	taken    map[string]bool
	calls    int
}

func (c *flakyCollection) Exists(_ context.Context, slug string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failures > 0 {
		c.failures--
		return false, errors.New("connection reset")
	}
	return c.taken[slug], nil
}

func TestDispatcherRetriesFailedSlugLookup(t *testing.T) {
	coll := &flakyCollection{failures: 1, taken: map[string]bool{"oak-table": true}}
	gen := slugs.NewGenerator()

	var reserved string
	handler := NewHandler(func(ctx context.Context, msg reserveMessage) error {
		slug, err := gen.MakeUnique(ctx, msg.Name, coll, slugs.LanguageEn)
		if err != nil {
			return err
		}
		reserved = slug
		return nil
	}, WithTimeout[reserveMessage](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), reserveMessage{Name: "Oak Table"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if reserved != "oak-table-1" {
		t.Fatalf("expected oak-table-1, got %q", reserved)
	}
}

type exhaustMessage struct{}

func (exhaustMessage) Type() string { return "deepwood.test.exhaust" }

func (exhaustMessage) Validate() error { return nil }

func TestDispatcherSurfacesLookupFailureAfterRetries(t *testing.T) {
	coll := &flakyCollection{failures: 10}
	gen := slugs.NewGenerator()

	handler := NewHandler(func(ctx context.Context, _ exhaustMessage) error {
		_, err := gen.MakeUnique(ctx, "Walnut Desk", coll, slugs.LanguageEn)
		return err
	}, WithTimeout[exhaustMessage](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), exhaustMessage{}); err == nil {
		t.Fatal("expected the lookup failure to reach the caller")
	}
	if coll.calls != 3 {
		t.Fatalf("expected 3 lookups (initial + 2 retries), got %d", coll.calls)
	}
}
