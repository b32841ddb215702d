package slugs

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language selects the normalization table used for a slug.
type Language uint8

const (
	LanguageEn Language = iota
	LanguageAr

	languageCount
)

// DefaultLanguage is used when no language is supplied.
const DefaultLanguage = LanguageEn

// Languages returns every supported language in declaration order.
func Languages() []Language {
	out := make([]Language, 0, languageCount)
	for l := Language(0); l < languageCount; l++ {
		out = append(out, l)
	}
	return out
}

// String returns the ISO 639-1 code of the language.
func (l Language) String() string {
	switch l {
	case LanguageEn:
		return "en"
	case LanguageAr:
		return "ar"
	default:
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
}

// Tag returns the BCP 47 tag used for case mapping.
func (l Language) Tag() language.Tag {
	return l.table().tag
}

// Valid reports whether l is one of the declared languages.
func (l Language) Valid() bool {
	return l < languageCount
}

func (l Language) table() *table {
	if !l.Valid() {
		return &tables[DefaultLanguage]
	}
	return &tables[l]
}

// ParseLanguage resolves a BCP 47 code such as "en", "en-US" or "ar-EG".
// An empty code resolves to DefaultLanguage.
func ParseLanguage(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLanguage, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	base, _ := tag.Base()
	for _, l := range Languages() {
		candidate, _ := l.Tag().Base()
		if candidate == base {
			return l, nil
		}
	}
	return DefaultLanguage, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
}

// MarshalText implements encoding.TextMarshaler.
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
