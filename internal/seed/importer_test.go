package seed_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/identity"
	"github.com/goliatone/go-deepwood/internal/markdown"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/seed"
)

const chairDoc = `---
kind: product
key: cedar-chair
name:
  en: Cedar Chair
  ar: كرسي أرز
price: 85000
status: published
---

Hand-finished cedar chair.
`

const kitchenDoc = `---
kind: project
key: villa-kitchen
slug_lang: ar
title:
  en: Riyadh Villa Kitchen
  ar: مطبخ فيلا الرياض
year: 2024
---

Walnut cabinetry.
`

func newImporter(t *testing.T, renderer *markdown.Renderer) (*seed.Importer, catalog.Service, portfolio.Service) {
	t.Helper()
	products := catalog.NewService(catalog.NewMemoryRepository())
	projects := portfolio.NewService(portfolio.NewMemoryRepository())
	return seed.NewImporter(seed.Config{
		Catalog:   products,
		Portfolio: projects,
		Renderer:  renderer,
		Recursive: true,
	}), products, projects
}

func TestImportFSCreatesEntities(t *testing.T) {
	ctx := context.Background()
	importer, products, projects := newImporter(t, nil)
	fsys := fstest.MapFS{
		"products/chair.md":   {Data: []byte(chairDoc)},
		"projects/kitchen.md": {Data: []byte(kitchenDoc)},
		"README.txt":          {Data: []byte("ignored")},
	}

	report, err := importer.ImportFS(ctx, fsys, ".")
	if err != nil {
		t.Fatalf("ImportFS: %v", err)
	}
	if len(report.Created) != 2 || report.Err() != nil {
		t.Fatalf("unexpected report %+v", report)
	}

	chair, err := products.GetBySlug(ctx, "cedar-chair")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if chair.ID != identity.SeedUUID(seed.KindProduct, "cedar-chair") {
		t.Fatalf("expected deterministic seed id, got %s", chair.ID)
	}
	if chair.Description.En != "Hand-finished cedar chair." {
		t.Fatalf("expected body as English description, got %q", chair.Description.En)
	}

	kitchen, err := projects.GetBySlug(ctx, "مطبخ-فيلا-الرياض")
	if err != nil {
		t.Fatalf("expected Arabic slug for project: %v", err)
	}
	if kitchen.Year != 2024 || kitchen.Title.En != "Riyadh Villa Kitchen" {
		t.Fatalf("unexpected project %+v", kitchen)
	}
}

func TestImportFSIsIdempotent(t *testing.T) {
	ctx := context.Background()
	importer, products, _ := newImporter(t, nil)
	fsys := fstest.MapFS{"chair.md": {Data: []byte(chairDoc)}}

	if _, err := importer.ImportFS(ctx, fsys, "."); err != nil {
		t.Fatalf("first import: %v", err)
	}
	report, err := importer.ImportFS(ctx, fsys, ".")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(report.Created) != 0 || len(report.Skipped) != 1 {
		t.Fatalf("expected document to be skipped, got %+v", report)
	}
	_, total, _ := products.List(ctx, catalog.ListOptions{})
	if total != 1 {
		t.Fatalf("expected a single product, got %d", total)
	}
}

func TestImportFSReportsBadDocuments(t *testing.T) {
	importer, _, _ := newImporter(t, nil)
	fsys := fstest.MapFS{
		"unknown.md":  {Data: []byte("---\nkind: widget\nname:\n  en: Thing\n---\n")},
		"nameless.md": {Data: []byte("---\nkind: product\n---\nbody\n")},
		"chair.md":    {Data: []byte(chairDoc)},
	}

	report, err := importer.ImportFS(context.Background(), fsys, ".")
	if err != nil {
		t.Fatalf("ImportFS: %v", err)
	}
	if len(report.Created) != 1 || len(report.Errors) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !errors.Is(report.Errors["unknown.md"], seed.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", report.Errors["unknown.md"])
	}
	if !errors.Is(report.Errors["nameless.md"], catalog.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", report.Errors["nameless.md"])
	}
	if report.Err() == nil {
		t.Fatalf("expected joined error")
	}
}

func TestImportFSRendersDescriptions(t *testing.T) {
	ctx := context.Background()
	importer, products, _ := newImporter(t, markdown.NewRenderer(markdown.RenderOptions{}))

	if _, err := importer.ImportFS(ctx, fstest.MapFS{"chair.md": {Data: []byte(chairDoc)}}, "."); err != nil {
		t.Fatalf("ImportFS: %v", err)
	}
	chair, err := products.GetBySlug(ctx, "cedar-chair")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if !strings.HasPrefix(chair.Description.En, "<p>") {
		t.Fatalf("expected HTML description, got %q", chair.Description.En)
	}
}

func TestImportWithoutPortfolioService(t *testing.T) {
	importer := seed.NewImporter(seed.Config{Catalog: catalog.NewService(catalog.NewMemoryRepository())})

	report, err := importer.ImportFS(context.Background(), fstest.MapFS{"kitchen.md": {Data: []byte(kitchenDoc)}}, ".")
	if err != nil {
		t.Fatalf("ImportFS: %v", err)
	}
	if !errors.Is(report.Errors["kitchen.md"], seed.ErrServiceMissing) {
		t.Fatalf("expected ErrServiceMissing, got %v", report.Errors)
	}
}

func TestImportDirectoryRequiresPath(t *testing.T) {
	importer, _, _ := newImporter(t, nil)
	if _, err := importer.ImportDirectory(context.Background(), " "); !errors.Is(err, seed.ErrDirectoryRequired) {
		t.Fatalf("expected ErrDirectoryRequired, got %v", err)
	}
}
