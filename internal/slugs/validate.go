package slugs

import (
	"strings"

	goslug "github.com/goliatone/go-slug"
)

// IsValid reports whether value is already a normalized slug for lang,
// using the default separator.
func IsValid(value string, lang Language) bool {
	if value == "" {
		return false
	}
	if lang == LanguageEn && !goslug.IsValid(value) {
		return false
	}
	return strictShape(value, lang.table(), DefaultSeparator)
}

func strictShape(value string, tbl *table, sep rune) bool {
	if strings.HasPrefix(value, string(sep)) || strings.HasSuffix(value, string(sep)) {
		return false
	}
	prevSep := false
	for _, r := range value {
		if r == sep {
			if prevSep {
				return false
			}
			prevSep = true
			continue
		}
		prevSep = false
		if !tbl.retain(r) {
			return false
		}
		if _, folded := tbl.fold[r]; folded {
			return false
		}
	}
	return true
}
