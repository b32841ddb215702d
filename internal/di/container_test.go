package di_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/commands/slugcmd"
	"github.com/goliatone/go-deepwood/internal/di"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/orders"
	"github.com/goliatone/go-deepwood/internal/runtimeconfig"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/internal/validation"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close(context.Background()) })
	return container
}

func TestMemoryContainerWiresServices(t *testing.T) {
	ctx := context.Background()
	container := newContainer(t, runtimeconfig.DefaultConfig())

	product, err := container.CatalogService().Create(ctx, catalog.CreateProductRequest{
		Name:   domain.Text{En: "Oak Stool", Ar: "كرسي بلوط"},
		Price:  30000,
		Status: "published",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.Currency != "SAR" {
		t.Fatalf("expected default currency from config, got %q", product.Currency)
	}

	order, err := container.OrdersService().Place(ctx, orders.PlaceOrderRequest{
		Customer: orders.Customer{Name: "Sara", Phone: "+966500000000"},
		Items:    []orders.ItemRequest{{Slug: product.Slug, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if order.Subtotal != 60000 || order.Number[:3] != "DW-" {
		t.Fatalf("unexpected order %+v", order)
	}

	settings, err := container.SettingsService().Get(ctx)
	if err != nil {
		t.Fatalf("settings Get: %v", err)
	}
	if settings.StoreName.Ar != "ديب وود" {
		t.Fatalf("expected configured defaults, got %+v", settings.StoreName)
	}

	url, err := container.Routes().ProductURL("ar", product.Slug)
	if err != nil {
		t.Fatalf("ProductURL: %v", err)
	}
	if url != "http://localhost:3000/ar/products/oak-stool" {
		t.Fatalf("unexpected product url %q", url)
	}
	if err := container.Healthcheck(ctx); err != nil {
		t.Fatalf("memory healthcheck: %v", err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "redis"
	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestBunContainerMigratesAndCaches(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.Dialect = "sqlite"
	cfg.Storage.DSN = fmt.Sprintf("file:di_bun_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	cfg.Storage.Migrate = true
	cfg.Cache.Enabled = true

	container := newContainer(t, cfg)
	if container.BunDB() == nil {
		t.Fatalf("expected bun db")
	}
	svc := container.CatalogService()

	first, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Teak Bench"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Teak Bench"}})
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if first.Slug != "teak-bench" || second.Slug != "teak-bench-1" {
		t.Fatalf("unexpected slugs %q, %q", first.Slug, second.Slug)
	}

	if _, err := svc.Get(ctx, first.ID); err != nil {
		t.Fatalf("cached Get: %v", err)
	}
	if _, err := svc.RegenerateSlug(ctx, first.ID, slugs.LanguageEn); err != nil {
		t.Fatalf("RegenerateSlug: %v", err)
	}
	fetched, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if fetched.Slug != "teak-bench" {
		t.Fatalf("expected slug to be kept on regenerate, got %q", fetched.Slug)
	}
	if err := container.Healthcheck(ctx); err != nil {
		t.Fatalf("Healthcheck: %v", err)
	}
}

func TestBunContainerCacheFollowsSlugRename(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.Dialect = "sqlite"
	cfg.Storage.DSN = fmt.Sprintf("file:di_rename_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	cfg.Storage.Migrate = true
	cfg.Cache.Enabled = true

	svc := newContainer(t, cfg).CatalogService()
	created, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Maple Shelf"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// warm the cache under the old slug
	if _, err := svc.GetBySlug(ctx, "maple-shelf"); err != nil {
		t.Fatalf("GetBySlug before rename: %v", err)
	}

	renamed := "maple-wall-shelf"
	updated, err := svc.Update(ctx, catalog.UpdateProductRequest{ID: created.ID, Slug: &renamed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != renamed {
		t.Fatalf("expected %q, got %q", renamed, updated.Slug)
	}

	if _, err := svc.GetBySlug(ctx, "maple-shelf"); !catalog.IsNotFound(err) {
		t.Fatalf("old slug should no longer resolve, got %v", err)
	}
	got, err := svc.GetBySlug(ctx, renamed)
	if err != nil {
		t.Fatalf("GetBySlug after rename: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("new slug resolved to %s, want %s", got.ID, created.ID)
	}
}

func TestContainerLoadsAttributeSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attributes.yaml")
	schema := "fields:\n  - name: wood\n    type: string\n    required: true\n"
	if err := os.WriteFile(path, []byte(schema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	cfg := runtimeconfig.DefaultConfig()
	cfg.Catalog.AttributeSchemaFile = path
	container := newContainer(t, cfg)

	_, err := container.CatalogService().Create(context.Background(), catalog.CreateProductRequest{
		Name:       domain.Text{En: "Ash Shelf"},
		Attributes: map[string]any{"colour": "natural"},
	})
	if !errors.Is(err, catalog.ErrAttributesSchema) || !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected attribute schema failure, got %v", err)
	}
}

func TestContainerMissingSchemaFile(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Catalog.AttributeSchemaFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := di.NewContainer(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing schema file")
	}
}

func TestContainerRegistersCommands(t *testing.T) {
	reg := &registry{}
	container := newContainer(t, runtimeconfig.DefaultConfig(), di.WithCommandRegistry(reg))

	if len(reg.handlers) != 3 {
		t.Fatalf("expected 3 registered handlers, got %d", len(reg.handlers))
	}
	preview, err := container.SlugCommands().Preview.Preview(context.Background(), slugcmd.PreviewSlugCommand{
		Text:       "Cedar Wardrobe",
		Collection: slugcmd.CollectionProducts,
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.Slug != "cedar-wardrobe" {
		t.Fatalf("unexpected preview %+v", preview)
	}
}

func TestContainerUsesLoggerProvider(t *testing.T) {
	rec := &recordingProvider{}
	newContainer(t, runtimeconfig.DefaultConfig(), di.WithLoggerProvider(rec))

	if !rec.has("deepwood.container_ready") {
		t.Fatalf("expected container_ready log entry, got %v", rec.messages)
	}
}

func TestGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"
	container := newContainer(t, cfg)
	if container.LoggerProvider() == nil {
		t.Fatalf("expected logger provider")
	}
}

type registry struct {
	handlers []any
}

func (r *registry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type recordingProvider struct {
	mu       sync.Mutex
	messages []string
}

func (p *recordingProvider) GetLogger(string) interfaces.Logger {
	return &recordingLogger{provider: p}
}

func (p *recordingProvider) record(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingProvider) has(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.messages {
		if m == msg {
			return true
		}
	}
	return false
}

type recordingLogger struct {
	provider *recordingProvider
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.provider.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.provider.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.provider.record(msg) }
func (l *recordingLogger) WithFields(map[string]any) interfaces.Logger {
	return l
}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}
