package slugs

import (
	"unicode"

	"golang.org/x/text/language"
)

// table is the per-language normalization data. Every Language constant
// must have an entry in tables.
type table struct {
	tag language.Tag
	// retain reports whether a folded rune survives strict mode.
	retain func(rune) bool
	// fold rewrites a rune into zero or more runes after decomposition.
	fold map[rune]string
	// translit is applied to folded runes when Normalizer.Transliterate is set.
	translit map[rune]string
}

var tables = [languageCount]table{
	LanguageEn: {
		tag:    language.English,
		retain: isLatinAlnum,
		fold:   mergeFolds(latinFolds, digitFolds, map[rune]string{'&': " and "}),
	},
	LanguageAr: {
		tag:      language.Arabic,
		retain:   isArabicOrLatinAlnum,
		fold:     mergeFolds(latinFolds, digitFolds, arabicFolds, map[rune]string{'&': " و "}),
		translit: arabicLatin,
	},
}

// stripped runes are deleted outright instead of turning into separators.
var stripped = map[rune]struct{}{
	'*': {}, '+': {}, '~': {}, '.': {}, '(': {}, ')': {}, '\'': {}, '"': {}, '!': {}, ':': {}, '@': {},
	'‘': {}, '’': {}, '“': {}, '”': {},
	'،': {}, '؛': {}, '؟': {},
}

// Letters NFKD leaves intact.
var latinFolds = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'ø': "o",
	'ł': "l",
	'œ': "oe",
	'þ': "th",
	'đ': "d",
	'ð': "d",
	'ı': "i",
	'ħ': "h",
	'ŧ': "t",
}

var digitFolds = func() map[rune]string {
	out := make(map[rune]string, 20)
	for i := rune(0); i < 10; i++ {
		digit := string('0' + i)
		out['٠'+i] = digit
		out['۰'+i] = digit
	}
	return out
}()

// Alef variants collapse to bare alef; tatweel is dropped.
var arabicFolds = map[rune]string{
	'\u0671': "\u0627",
	'\u0623': "\u0627",
	'\u0625': "\u0627",
	'\u0622': "\u0627",
	'\u0640': "",
}

var arabicLatin = map[rune]string{
	'ا': "a",
	'ب': "b",
	'ت': "t",
	'ث': "th",
	'ج': "j",
	'ح': "h",
	'خ': "kh",
	'د': "d",
	'ذ': "dh",
	'ر': "r",
	'ز': "z",
	'س': "s",
	'ش': "sh",
	'ص': "s",
	'ض': "d",
	'ط': "t",
	'ظ': "z",
	'ع': "a",
	'غ': "gh",
	'ف': "f",
	'ق': "q",
	'ك': "k",
	'ل': "l",
	'م': "m",
	'ن': "n",
	'ه': "h",
	'و': "w",
	'ي': "y",
	'ى': "a",
	'ة': "a",
	'ء': "",
	'ؤ': "w",
	'ئ': "y",
	'پ': "p",
	'چ': "ch",
	'ک': "k",
	'گ': "g",
	'ی': "y",
}

func isLatinAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isArabicOrLatinAlnum(r rune) bool {
	if isLatinAlnum(r) {
		return true
	}
	return unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r)
}

func mergeFolds(parts ...map[rune]string) map[rune]string {
	out := map[rune]string{}
	for _, part := range parts {
		for k, v := range part {
			out[k] = v
		}
	}
	return out
}
