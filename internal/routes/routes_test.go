package routes_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-deepwood/internal/locales"
	"github.com/goliatone/go-deepwood/internal/routes"
)

func newRouter(t *testing.T, cfg routes.Config) *routes.Router {
	t.Helper()
	reg, err := locales.New([]locales.Definition{
		{Code: "en", Name: "English"},
		{Code: "ar", Name: "Arabic", RTL: true},
	}, "en")
	if err != nil {
		t.Fatalf("locales.New: %v", err)
	}
	router, err := routes.New(cfg, reg)
	if err != nil {
		t.Fatalf("routes.New: %v", err)
	}
	return router
}

func TestProductURLPerLocale(t *testing.T) {
	router := newRouter(t, routes.Config{BaseURL: "https://deepwood.sa/"})

	cases := map[string]string{
		"en": "https://deepwood.sa/en/products/oak-table",
		"ar": "https://deepwood.sa/ar/products/oak-table",
		"":   "https://deepwood.sa/products/oak-table",
	}
	for locale, want := range cases {
		got, err := router.ProductURL(locale, "oak-table")
		if err != nil {
			t.Fatalf("ProductURL(%q): %v", locale, err)
		}
		if got != want {
			t.Fatalf("ProductURL(%q) = %s, want %s", locale, got, want)
		}
	}
}

func TestLocalePathOverrides(t *testing.T) {
	router := newRouter(t, routes.Config{
		BaseURL: "https://deepwood.sa",
		Paths: map[string]map[string]string{
			"ar": {routes.Project: "/amal/:slug"},
		},
	})

	got, err := router.ProjectURL("ar", "villa-kitchen")
	if err != nil {
		t.Fatalf("ProjectURL: %v", err)
	}
	if got != "https://deepwood.sa/ar/amal/villa-kitchen" {
		t.Fatalf("unexpected project url %s", got)
	}
	en, err := router.ProjectURL("en", "villa-kitchen")
	if err != nil {
		t.Fatalf("ProjectURL en: %v", err)
	}
	if en != "https://deepwood.sa/en/projects/villa-kitchen" {
		t.Fatalf("override leaked into en: %s", en)
	}
}

func TestAlternates(t *testing.T) {
	router := newRouter(t, routes.Config{BaseURL: "https://deepwood.sa"})

	alts, err := router.Alternates(routes.Product, "oak-table")
	if err != nil {
		t.Fatalf("Alternates: %v", err)
	}
	if len(alts) != 3 {
		t.Fatalf("expected en, ar and x-default, got %v", alts)
	}
	if alts[routes.XDefault] != "https://deepwood.sa/products/oak-table" {
		t.Fatalf("unexpected x-default %s", alts[routes.XDefault])
	}
	if alts["ar"] != "https://deepwood.sa/ar/products/oak-table" {
		t.Fatalf("unexpected ar alternate %s", alts["ar"])
	}
}

func TestURLErrors(t *testing.T) {
	router := newRouter(t, routes.Config{BaseURL: "https://deepwood.sa"})

	if _, err := router.URL("en", "blog", nil); !errors.Is(err, routes.ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
	if _, err := router.URL("fr", routes.Contact, nil); !errors.Is(err, locales.ErrUnknownLocale) {
		t.Fatalf("expected ErrUnknownLocale, got %v", err)
	}
}
