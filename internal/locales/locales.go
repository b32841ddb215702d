// Package locales holds the static table of storefront locales and the
// helpers that pick one for a request.
package locales

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/goliatone/go-deepwood/internal/identity"
	"github.com/goliatone/go-deepwood/internal/slugs"
)

var (
	ErrNoLocales      = errors.New("locales: at least one locale is required")
	ErrUnknownLocale  = errors.New("locales: unknown locale")
	ErrDuplicateCode  = errors.New("locales: duplicate locale code")
	ErrDefaultMissing = errors.New("locales: default locale is not declared")
)

// Direction is the text direction of a locale.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Definition is the input used to build a Registry.
type Definition struct {
	Code       string
	Name       string
	NativeName string
	RTL        bool
}

// Locale is a resolved storefront locale.
type Locale struct {
	ID         uuid.UUID      `json:"id"`
	Code       string         `json:"code"`
	Name       string         `json:"name"`
	NativeName string         `json:"native_name"`
	Direction  Direction      `json:"direction"`
	IsDefault  bool           `json:"is_default"`
	Language   slugs.Language `json:"slug_language"`
	Tag        language.Tag   `json:"-"`
}

// Registry is immutable once built and safe for concurrent use.
type Registry struct {
	ordered []Locale
	byCode  map[string]int
	def     int
	matcher language.Matcher
}

// New validates defs and builds a Registry.
func New(defs []Definition, defaultCode string) (*Registry, error) {
	if len(defs) == 0 {
		return nil, ErrNoLocales
	}
	r := &Registry{
		ordered: make([]Locale, 0, len(defs)),
		byCode:  make(map[string]int, len(defs)),
		def:     -1,
	}
	defaultCode = canonical(defaultCode)
	tags := make([]language.Tag, 0, len(defs))

	for _, def := range defs {
		code := canonical(def.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: empty code", ErrUnknownLocale)
		}
		if _, dup := r.byCode[code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
		}
		lang, err := slugs.ParseLanguage(code)
		if err != nil {
			return nil, fmt.Errorf("locales: %s: %w", code, err)
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, code)
		}
		loc := Locale{
			ID:         identity.LocaleUUID(code),
			Code:       code,
			Name:       strings.TrimSpace(def.Name),
			NativeName: strings.TrimSpace(def.NativeName),
			Direction:  LTR,
			Language:   lang,
			Tag:        tag,
		}
		if def.RTL {
			loc.Direction = RTL
		}
		if loc.Name == "" {
			loc.Name = code
		}
		if loc.NativeName == "" {
			loc.NativeName = loc.Name
		}
		if code == defaultCode {
			loc.IsDefault = true
			r.def = len(r.ordered)
		}
		r.byCode[code] = len(r.ordered)
		r.ordered = append(r.ordered, loc)
		tags = append(tags, tag)
	}

	if r.def < 0 {
		return nil, fmt.Errorf("%w: %q", ErrDefaultMissing, defaultCode)
	}
	// The matcher falls back to its first tag, so the default goes first.
	tags[0], tags[r.def] = tags[r.def], tags[0]
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

// List returns locales in declaration order.
func (r *Registry) List() []Locale {
	out := make([]Locale, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Codes returns locale codes in declaration order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.ordered))
	for i, loc := range r.ordered {
		out[i] = loc.Code
	}
	return out
}

// Get resolves a code such as "ar" or "ar-SA" to a declared locale.
func (r *Registry) Get(code string) (Locale, error) {
	code = canonical(code)
	if idx, ok := r.byCode[code]; ok {
		return r.ordered[idx], nil
	}
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		if idx, ok := r.byCode[base.String()]; ok {
			return r.ordered[idx], nil
		}
	}
	return Locale{}, fmt.Errorf("%w: %q", ErrUnknownLocale, code)
}

// Has reports whether code resolves to a declared locale.
func (r *Registry) Has(code string) bool {
	_, err := r.Get(code)
	return err == nil
}

func (r *Registry) Default() Locale {
	return r.ordered[r.def]
}

// Language returns the slug language for code, or the default locale's
// language when code is unknown.
func (r *Registry) Language(code string) slugs.Language {
	if loc, err := r.Get(code); err == nil {
		return loc.Language
	}
	return r.Default().Language
}

// Negotiate picks the best locale for an Accept-Language header.
func (r *Registry) Negotiate(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return r.Default()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.Default()
	}
	matched, _, confidence := r.matcher.Match(tags...)
	if confidence == language.No {
		return r.Default()
	}
	base, _ := matched.Base()
	if loc, err := r.Get(base.String()); err == nil {
		return loc
	}
	return r.Default()
}

// FromPath splits a locale prefix off path. "/ar/products" yields the ar
// locale, "/products" and true. Paths without a known prefix return the
// default locale, the path unchanged and false.
func (r *Registry) FromPath(path string) (Locale, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")
	if idx, ok := r.byCode[canonical(segment)]; ok && segment != "" {
		return r.ordered[idx], "/" + rest, true
	}
	if path == "" {
		path = "/"
	}
	return r.Default(), path, false
}

func canonical(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
