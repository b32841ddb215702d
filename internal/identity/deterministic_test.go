package identity_test

import (
	"testing"

	"github.com/goliatone/go-deepwood/internal/identity"
	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := identity.LocaleUUID(" AR ")
	second := identity.LocaleUUID("ar")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable locale id, got %s and %s", first, second)
	}
	if identity.LocaleUUID("en") == first {
		t.Fatalf("expected distinct ids per locale")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := identity.UUID("  "); got != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s", got)
	}
}

func TestSeedUUIDScopesByKind(t *testing.T) {
	product := identity.SeedUUID("product", "oak-table.md")
	project := identity.SeedUUID("project", "oak-table.md")
	if product == project {
		t.Fatalf("expected kind to scope seed ids")
	}
	if product != identity.SeedUUID("Product", "oak-table.md") {
		t.Fatalf("expected kind to be case insensitive")
	}
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	if got := identity.ShortID(id); got != "3f2504e0" {
		t.Fatalf("unexpected short id %q", got)
	}
}
