package catalog

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewProductRepository(db *bun.DB) repository.Repository[*Product] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Product) string {
			return p.Slug
		},
	})
}

// Models returns the bun models owned by the catalog, for migrations.
func Models() []any {
	return []any{(*Product)(nil)}
}
