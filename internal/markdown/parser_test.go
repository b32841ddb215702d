package markdown

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-deepwood/internal/domain"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/products/oak-table.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Kind != "product" || fm.Key != "oak-dining-table" {
		t.Fatalf("unexpected kind/key %q/%q", fm.Kind, fm.Key)
	}
	if fm.Name.En != "Oak Dining Table" || fm.Name.Ar != "طاولة طعام بلوط" {
		t.Fatalf("unexpected name %+v", fm.Name)
	}
	if fm.Price != 450000 || !fm.Featured || len(fm.Images) != 1 {
		t.Fatalf("unexpected scalar fields %+v", fm)
	}
	if fm.Attributes["wood"] != "oak" || fm.Attributes["seats"] != 6 {
		t.Fatalf("unexpected attributes %#v", fm.Attributes)
	}
	if fm.Custom["finish"] != "matte" {
		t.Fatalf("expected unknown keys in Custom, got %#v", fm.Custom)
	}
	if !strings.HasPrefix(string(body), "Solid **oak**") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseDocumentDescriptionFallsBackToBody(t *testing.T) {
	data := readFixture(t, "testdata/products/oak-table.md")
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	doc, err := ParseDocument("products/oak-table.md", data, modified)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Path != "products/oak-table.md" || !doc.Modified.Equal(modified) || len(doc.Checksum) != 32 {
		t.Fatalf("unexpected document metadata %+v", doc)
	}
	desc := doc.DescriptionText()
	if desc.En != "Solid **oak** table for six." || desc.Ar != "طاولة من خشب البلوط الصلب" {
		t.Fatalf("unexpected description %+v", desc)
	}
}

func TestDisplayNamePrefersTitle(t *testing.T) {
	meta := FrontMatter{Name: domain.Text{En: "name"}, Title: domain.Text{En: " title "}}
	if got := meta.DisplayName(); got.En != "title" {
		t.Fatalf("expected title, got %+v", got)
	}
	meta.Title = domain.Text{}
	if got := meta.DisplayName(); got.En != "name" {
		t.Fatalf("expected name, got %+v", got)
	}
}

func TestRendererRender(t *testing.T) {
	renderer := NewRenderer(RenderOptions{})

	html, err := renderer.Render([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected <h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected <strong>, got %q", got)
	}
}

func TestRendererHardWrapsAndText(t *testing.T) {
	renderer := NewRenderer(RenderOptions{HardWraps: true})

	out, err := renderer.RenderText(domain.Text{En: "line one\nline two", Ar: "  "})
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if !strings.Contains(out.En, "line one<br>") {
		t.Fatalf("expected hard wraps, got %q", out.En)
	}
	if out.Ar != "" {
		t.Fatalf("expected blank Arabic to stay empty, got %q", out.Ar)
	}
}

func TestCollectExtensionsDeduplicates(t *testing.T) {
	if got := collectExtensions(nil); len(got) != 2 {
		t.Fatalf("expected default extensions, got %d", len(got))
	}
	if got := collectExtensions([]string{"table", "TABLE", "unknown", "footnote"}); len(got) != 2 {
		t.Fatalf("expected 2 extensions, got %d", len(got))
	}
}

func TestLoadDirectory(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"), LoaderConfig{Recursive: true})

	docs, failures, err := loader.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Path != "products/oak-table.md" || docs[1].Path != "projects/villa-kitchen.md" {
		t.Fatalf("unexpected order %q, %q", docs[0].Path, docs[1].Path)
	}
	if _, ok := failures["products/broken.md"]; !ok || len(failures) != 1 {
		t.Fatalf("expected broken.md failure, got %v", failures)
	}
}

func TestLoadDirectoryNonRecursive(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"), LoaderConfig{})

	docs, _, err := loader.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents at the root, got %d", len(docs))
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
