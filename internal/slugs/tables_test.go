package slugs

import (
	"testing"

	"golang.org/x/text/language"
)

func TestEveryLanguageHasTable(t *testing.T) {
	for _, lang := range Languages() {
		tbl := tables[lang]
		if tbl.tag == language.Und {
			t.Fatalf("%s: missing language tag", lang)
		}
		if tbl.retain == nil {
			t.Fatalf("%s: missing retain func", lang)
		}
		if !tbl.retain('a') || !tbl.retain('7') {
			t.Fatalf("%s: latin alphanumerics must be retained", lang)
		}
	}
}

func TestNormalizeOutputShape(t *testing.T) {
	inputs := []string{
		"Oak Table", "  Mom's Desk!! ", "Straße — Café", "كرسي خشبي", "أريكة ـ مائدة ٣",
		"***", "a & b", "x​y", "ﷲ", "Ⅻ ½",
	}
	var n Normalizer
	for _, lang := range Languages() {
		for _, in := range inputs {
			out := n.Normalize(in, lang)
			if out == "" {
				continue
			}
			if !strictShape(out, lang.table(), DefaultSeparator) {
				t.Fatalf("%s: Normalize(%q) = %q has invalid shape", lang, in, out)
			}
		}
	}
}

func TestUnknownLanguageFallsBackToDefaultTable(t *testing.T) {
	if Language(42).table() != &tables[DefaultLanguage] {
		t.Fatalf("expected default table for unknown language")
	}
	if Language(42).Valid() {
		t.Fatalf("expected Language(42) to be invalid")
	}
}
