package slugs

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSeparator joins slug tokens.
const DefaultSeparator = '-'

// Normalizer turns display text into a slug. The zero value is ready to use.
// A Normalizer holds no mutable state and may be shared between goroutines.
type Normalizer struct {
	// Separator joins tokens; zero means DefaultSeparator.
	Separator rune
	// MaxLength caps the slug in runes; zero means unlimited.
	MaxLength int
	// Transliterate rewrites Arabic letters to Latin.
	Transliterate bool
}

// Normalize converts text into a slug for lang. Empty input, or input with
// nothing left after stripping, yields "".
func (n Normalizer) Normalize(text string, lang Language) string {
	if text == "" {
		return ""
	}
	tbl := lang.table()
	sep := n.separator()

	// Casers and transform chains carry state, so they are built per call.
	lowered := cases.Lower(tbl.tag).String(text)
	decomposed, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isDroppedMark)), norm.NFC), lowered)
	if err != nil {
		decomposed = lowered
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	pending := false
	emit := func(r rune) {
		if _, ok := stripped[r]; ok {
			return
		}
		if r == sep || !tbl.retain(r) {
			pending = true
			return
		}
		if pending && b.Len() > 0 {
			b.WriteRune(sep)
		}
		pending = false
		b.WriteRune(r)
	}
	expand := func(r rune) {
		if n.Transliterate && tbl.translit != nil {
			if latin, ok := tbl.translit[r]; ok {
				for _, lr := range latin {
					emit(lr)
				}
				return
			}
		}
		emit(r)
	}

	for _, r := range decomposed {
		if folded, ok := tbl.fold[r]; ok {
			for _, fr := range folded {
				expand(fr)
			}
			continue
		}
		expand(r)
	}

	return n.truncate(b.String())
}

// Bind fixes the language so the normalizer satisfies go-slug's Normalizer.
func (n Normalizer) Bind(lang Language) BoundNormalizer {
	return BoundNormalizer{normalizer: n, lang: lang}
}

// BoundNormalizer is a Normalizer pinned to one language.
type BoundNormalizer struct {
	normalizer Normalizer
	lang       Language
}

var _ goslug.Normalizer = BoundNormalizer{}

// Normalize returns ErrEmptySlug when nothing survives normalization.
func (b BoundNormalizer) Normalize(text string) (string, error) {
	out := b.normalizer.Normalize(text, b.lang)
	if out == "" {
		return "", ErrEmptySlug
	}
	return out, nil
}

func (n Normalizer) separator() rune {
	if n.Separator == 0 {
		return DefaultSeparator
	}
	return n.Separator
}

func (n Normalizer) truncate(slug string) string {
	if n.MaxLength <= 0 || utf8.RuneCountInString(slug) <= n.MaxLength {
		return slug
	}
	sep := n.separator()
	cut := []rune(slug)
	next := cut[n.MaxLength]
	cut = cut[:n.MaxLength]
	if next != sep {
		for i := len(cut) - 1; i > 0; i-- {
			if cut[i] == sep {
				cut = cut[:i]
				break
			}
		}
	}
	return strings.TrimRight(string(cut), string(sep))
}

// suffixed returns base+sep+counter, trimming base when MaxLength requires it.
func (n Normalizer) suffixed(base string, counter int) string {
	sep := string(n.separator())
	suffix := sep + strconv.Itoa(counter)
	if n.MaxLength <= 0 {
		return base + suffix
	}
	room := n.MaxLength - utf8.RuneCountInString(suffix)
	if room <= 0 {
		return strings.TrimPrefix(suffix, sep)
	}
	if utf8.RuneCountInString(base) > room {
		base = strings.TrimRight(string([]rune(base)[:room]), sep)
	}
	if base == "" {
		return strings.TrimPrefix(suffix, sep)
	}
	return base + suffix
}

// Hamza marks survive so that hamza-seated letters recompose under NFC.
func isDroppedMark(r rune) bool {
	return unicode.Is(unicode.Mn, r) && r != '\u0654' && r != '\u0655'
}
