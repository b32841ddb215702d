package portfolio

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewProjectRepository(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Project) string {
			return p.Slug
		},
	})
}

// Models returns the bun models owned by the portfolio, for migrations.
func Models() []any {
	return []any{(*Project)(nil)}
}
