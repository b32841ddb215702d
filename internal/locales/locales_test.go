package locales_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-deepwood/internal/locales"
	"github.com/goliatone/go-deepwood/internal/slugs"
)

func newRegistry(t *testing.T) *locales.Registry {
	t.Helper()
	reg, err := locales.New([]locales.Definition{
		{Code: "en", Name: "English"},
		{Code: "ar", Name: "Arabic", NativeName: "العربية", RTL: true},
	}, "en")
	if err != nil {
		t.Fatalf("locales.New: %v", err)
	}
	return reg
}

func TestRegistryLookup(t *testing.T) {
	reg := newRegistry(t)

	ar, err := reg.Get("ar-SA")
	if err != nil {
		t.Fatalf("Get(ar-SA): %v", err)
	}
	if ar.Code != "ar" || ar.Direction != locales.RTL || ar.Language != slugs.LanguageAr {
		t.Fatalf("unexpected locale %+v", ar)
	}
	if reg.Default().Code != "en" || !reg.Default().IsDefault {
		t.Fatalf("unexpected default %+v", reg.Default())
	}
	if _, err := reg.Get("fr"); !errors.Is(err, locales.ErrUnknownLocale) {
		t.Fatalf("expected ErrUnknownLocale, got %v", err)
	}
	if got := reg.Language("de"); got != slugs.LanguageEn {
		t.Fatalf("expected default language fallback, got %s", got)
	}
	if codes := reg.Codes(); len(codes) != 2 || codes[0] != "en" || codes[1] != "ar" {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestRegistryRejectsBadDefinitions(t *testing.T) {
	if _, err := locales.New(nil, "en"); !errors.Is(err, locales.ErrNoLocales) {
		t.Fatalf("expected ErrNoLocales, got %v", err)
	}
	if _, err := locales.New([]locales.Definition{{Code: "en"}, {Code: "EN"}}, "en"); !errors.Is(err, locales.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	if _, err := locales.New([]locales.Definition{{Code: "en"}}, "ar"); !errors.Is(err, locales.ErrDefaultMissing) {
		t.Fatalf("expected ErrDefaultMissing, got %v", err)
	}
	if _, err := locales.New([]locales.Definition{{Code: "fr"}}, "fr"); !errors.Is(err, slugs.ErrUnknownLanguage) {
		t.Fatalf("expected slug language error, got %v", err)
	}
}

func TestNegotiate(t *testing.T) {
	reg := newRegistry(t)
	cases := map[string]string{
		"":                        "en",
		"ar-SA,ar;q=0.9,en;q=0.8": "ar",
		"en-GB,en;q=0.9":          "en",
		"fr-FR,fr;q=0.9":          "en",
		"fr;q=0.9,ar;q=0.5":       "ar",
		"not a header;;;":         "en",
	}
	for header, want := range cases {
		if got := reg.Negotiate(header).Code; got != want {
			t.Fatalf("Negotiate(%q) = %s, want %s", header, got, want)
		}
	}
}

func TestFromPath(t *testing.T) {
	reg := newRegistry(t)
	cases := []struct {
		path   string
		code   string
		rest   string
		prefix bool
	}{
		{path: "/ar/products/oak-table", code: "ar", rest: "/products/oak-table", prefix: true},
		{path: "/en", code: "en", rest: "/", prefix: true},
		{path: "/products", code: "en", rest: "/products", prefix: false},
		{path: "", code: "en", rest: "/", prefix: false},
		{path: "/arabic/x", code: "en", rest: "/arabic/x", prefix: false},
	}
	for _, tc := range cases {
		loc, rest, ok := reg.FromPath(tc.path)
		if loc.Code != tc.code || rest != tc.rest || ok != tc.prefix {
			t.Fatalf("FromPath(%q) = (%s, %q, %v)", tc.path, loc.Code, rest, ok)
		}
	}
}
