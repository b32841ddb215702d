package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type so different kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func LocaleUUID(code string) uuid.UUID {
	return UUID("deepwood:locale:" + strings.ToLower(strings.TrimSpace(code)))
}

// SettingsUUID identifies the single storefront settings record.
func SettingsUUID() uuid.UUID {
	return UUID("deepwood:settings:store")
}

// SeedUUID identifies an entity imported from a seed document so that
// re-running an import finds the same record.
func SeedUUID(kind, key string) uuid.UUID {
	return UUID("deepwood:seed:" + strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.TrimSpace(key))
}

// ShortID returns the first eight hex characters of id, used in fallback slugs.
func ShortID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
