package deepwood_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-deepwood"
	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/commands/seedcmd"
	"github.com/goliatone/go-deepwood/internal/commands/slugcmd"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/slugs"
)

func newModule(t *testing.T, cfg deepwood.Config) *deepwood.Module {
	t.Helper()
	module, err := deepwood.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close(context.Background()) })
	return module
}

func TestModuleSeedsAndPreviewsSlugs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	doc := "---\nkind: product\nkey: majlis-sofa\nname:\n  en: Majlis Sofa\n  ar: كنبة مجلس\nstatus: published\n---\nLow seating.\n"
	if err := os.WriteFile(filepath.Join(dir, "sofa.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	module := newModule(t, deepwood.DefaultConfig())

	if err := module.Commands().ImportCatalog.Execute(ctx, seedcmd.ImportCatalogCommand{Directory: dir}); err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	if _, err := module.Catalog().GetBySlug(ctx, "majlis-sofa"); err != nil {
		t.Fatalf("expected seeded product: %v", err)
	}

	preview, err := module.Commands().PreviewSlug.Preview(ctx, slugcmd.PreviewSlugCommand{
		Text:       "Majlis Sofa",
		Collection: slugcmd.CollectionProducts,
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.Slug != "majlis-sofa-1" {
		t.Fatalf("expected suffixed preview, got %q", preview.Slug)
	}

	report, err := module.Seeder().ImportDirectory(ctx, dir)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("expected re-import to skip, got %+v", report)
	}
}

func TestModuleSlugGeneratorHonoursConfig(t *testing.T) {
	cfg := deepwood.DefaultConfig()
	cfg.Slugs.MaxLength = 8
	module := newModule(t, cfg)

	if got := module.Slugs().Normalize("Walnut Coffee Table", slugs.LanguageEn); got != "walnut" {
		t.Fatalf("expected truncated slug, got %q", got)
	}
	if module.Locales().Default().Code != "en" {
		t.Fatalf("expected en default locale")
	}
}

func TestModuleArabicProductFlow(t *testing.T) {
	ctx := context.Background()
	module := newModule(t, deepwood.DefaultConfig())

	product, err := module.Catalog().Create(ctx, catalog.CreateProductRequest{
		Name:         domain.Text{En: "Palm Basket", Ar: "سلة نخيل"},
		SlugLanguage: slugs.LanguageAr,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.Slug != "سلة-نخيل" {
		t.Fatalf("unexpected Arabic slug %q", product.Slug)
	}
	alternates, err := module.Routes().Alternates("product", product.Slug)
	if err != nil {
		t.Fatalf("Alternates: %v", err)
	}
	if len(alternates) < 2 {
		t.Fatalf("expected hreflang alternates, got %v", alternates)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := deepwood.DefaultConfig()
	cfg.DefaultLocale = "fr"
	if _, err := deepwood.New(cfg); !errors.Is(err, deepwood.ErrDefaultLocaleUnknown) {
		t.Fatalf("expected ErrDefaultLocaleUnknown, got %v", err)
	}
}
