package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

// Status represents the publication state of catalog and portfolio entries
type Status string

const (
	// StatusDraft is not visible on the storefront
	StatusDraft Status = "draft"
	// StatusPublished is listed and orderable
	StatusPublished Status = "published"
	// StatusArchived is kept for order history but hidden
	StatusArchived Status = "archived"
)

var ErrInvalidStatus = errors.New("domain: invalid status")

// ParseStatus maps user input to a Status. Empty input means draft.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case "", StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil && s != ""
}

// Text is a value carried in both storefront languages.
type Text struct {
	En string `bun:"en"  json:"en"  bson:"en"  yaml:"en"`
	Ar string `bun:"ar"  json:"ar"  bson:"ar"  yaml:"ar"`
}

// In returns the value for lang without falling back.
func (t Text) In(lang slugs.Language) string {
	if lang == slugs.LanguageAr {
		return t.Ar
	}
	return t.En
}

// Fallback returns the value for lang, or the other language when empty.
func (t Text) Fallback(lang slugs.Language) string {
	if v := strings.TrimSpace(t.In(lang)); v != "" {
		return v
	}
	if lang == slugs.LanguageAr {
		return strings.TrimSpace(t.En)
	}
	return strings.TrimSpace(t.Ar)
}

// Trimmed returns t with surrounding whitespace removed.
func (t Text) Trimmed() Text {
	return Text{En: strings.TrimSpace(t.En), Ar: strings.TrimSpace(t.Ar)}
}

func (t Text) IsZero() bool {
	return strings.TrimSpace(t.En) == "" && strings.TrimSpace(t.Ar) == ""
}

// Merge overlays the non-empty values of patch onto t.
func (t Text) Merge(patch *Text) Text {
	if patch == nil {
		return t
	}
	out := t
	if patch.En != "" {
		out.En = strings.TrimSpace(patch.En)
	}
	if patch.Ar != "" {
		out.Ar = strings.TrimSpace(patch.Ar)
	}
	return out
}
