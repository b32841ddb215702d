package domain_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/slugs"
)

func TestParseStatus(t *testing.T) {
	got, err := domain.ParseStatus(" Published ")
	if err != nil || got != domain.StatusPublished {
		t.Fatalf("unexpected result %q %v", got, err)
	}
	if got, _ := domain.ParseStatus(""); got != domain.StatusDraft {
		t.Fatalf("expected draft default, got %q", got)
	}
	if _, err := domain.ParseStatus("deleted"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTextFallback(t *testing.T) {
	text := domain.Text{En: "Oak Table"}
	if got := text.Fallback(slugs.LanguageAr); got != "Oak Table" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := text.In(slugs.LanguageAr); got != "" {
		t.Fatalf("In should not fall back, got %q", got)
	}

	merged := text.Merge(&domain.Text{Ar: " طاولة "})
	if merged.En != "Oak Table" || merged.Ar != "طاولة" {
		t.Fatalf("unexpected merge %+v", merged)
	}
	if !(domain.Text{En: "  "}).IsZero() {
		t.Fatalf("expected whitespace text to be zero")
	}
}
