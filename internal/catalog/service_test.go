package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/internal/validation"
)

func fixedClock() time.Time {
	return time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T, repo catalog.Repository, opts ...catalog.ServiceOption) catalog.Service {
	t.Helper()
	gen := slugs.NewGenerator(slugs.WithBackoff(time.Millisecond, 2*time.Millisecond))
	base := []catalog.ServiceOption{catalog.WithClock(fixedClock), catalog.WithSlugGenerator(gen)}
	return catalog.NewService(repo, append(base, opts...)...)
}

func TestCreateDerivesUniqueSlugs(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, catalog.NewMemoryRepository())

	first, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Oak Dining Table"}, Price: 450000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Oak Dining Table!"}, Price: 470000})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	if first.Slug != "oak-dining-table" || second.Slug != "oak-dining-table-1" {
		t.Fatalf("unexpected slugs %q, %q", first.Slug, second.Slug)
	}
	if first.Currency != "SAR" || first.Status != domain.StatusDraft {
		t.Fatalf("expected defaults applied, got %+v", first)
	}
	if !first.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("expected clock timestamp, got %s", first.CreatedAt)
	}
}

func TestCreateArabicSlugAndFallbacks(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, catalog.NewMemoryRepository())

	arabic, err := svc.Create(ctx, catalog.CreateProductRequest{
		Name:         domain.Text{En: "Cedar Chair", Ar: "كرسي أرز"},
		SlugLanguage: slugs.LanguageAr,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if arabic.Slug != "كرسي-ارز" {
		t.Fatalf("expected arabic slug, got %q", arabic.Slug)
	}

	fallback, err := svc.Create(ctx, catalog.CreateProductRequest{
		Name:         domain.Text{Ar: "خزانة"},
		SlugLanguage: slugs.LanguageEn,
	})
	if err != nil {
		t.Fatalf("Create fallback: %v", err)
	}
	if fallback.Slug != "خزانة" {
		t.Fatalf("expected other-language fallback, got %q", fallback.Slug)
	}

	id := uuid.MustParse("0f8c7a52-3b1d-4c64-9c1e-6a9f0d2b7e11")
	token, err := svc.Create(ctx, catalog.CreateProductRequest{ID: id, Name: domain.Text{En: "!!!"}})
	if err != nil {
		t.Fatalf("Create token fallback: %v", err)
	}
	if token.Slug != "product-0f8c7a52" {
		t.Fatalf("expected id-derived slug, got %q", token.Slug)
	}
}

func TestCreateExplicitSlug(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, catalog.NewMemoryRepository())

	created, err := svc.Create(ctx, catalog.CreateProductRequest{Slug: "Walnut Shelf", Name: domain.Text{En: "Shelf"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug != "walnut-shelf" {
		t.Fatalf("expected normalized explicit slug, got %q", created.Slug)
	}

	_, err = svc.Create(ctx, catalog.CreateProductRequest{Slug: "walnut-shelf", Name: domain.Text{En: "Other"}})
	if !errors.Is(err, catalog.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	_, err = svc.Create(ctx, catalog.CreateProductRequest{Slug: "???", Name: domain.Text{En: "Other"}})
	if !errors.Is(err, catalog.ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	schema, err := validation.Compile(map[string]any{
		"fields": []any{map[string]any{"name": "wood", "type": "string", "required": true}},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	svc := newService(t, catalog.NewMemoryRepository(), catalog.WithAttributeSchema(schema))

	cases := map[string]struct {
		req  catalog.CreateProductRequest
		want error
	}{
		"missing name":    {catalog.CreateProductRequest{Attributes: map[string]any{"wood": "oak"}}, catalog.ErrNameRequired},
		"negative price":  {catalog.CreateProductRequest{Name: domain.Text{En: "x"}, Price: -1, Attributes: map[string]any{"wood": "oak"}}, catalog.ErrPriceInvalid},
		"bad currency":    {catalog.CreateProductRequest{Name: domain.Text{En: "x"}, Currency: "riyal", Attributes: map[string]any{"wood": "oak"}}, catalog.ErrInvalidProduct},
		"bad status":      {catalog.CreateProductRequest{Name: domain.Text{En: "x"}, Status: "sold", Attributes: map[string]any{"wood": "oak"}}, domain.ErrInvalidStatus},
		"schema mismatch": {catalog.CreateProductRequest{Name: domain.Text{En: "x"}}, catalog.ErrAttributesSchema},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdateKeepsSlugUnlessAsked(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, catalog.NewMemoryRepository())

	created, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Pine Bench"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	renamed, err := svc.Update(ctx, catalog.UpdateProductRequest{ID: created.ID, Name: &domain.Text{En: "Teak Bench"}, Price: ptr(int64(99000))})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if renamed.Slug != "pine-bench" || renamed.Name.En != "Teak Bench" || renamed.Price != 99000 {
		t.Fatalf("unexpected update result %+v", renamed)
	}

	regenerated, err := svc.RegenerateSlug(ctx, created.ID, slugs.LanguageEn)
	if err != nil {
		t.Fatalf("RegenerateSlug: %v", err)
	}
	if regenerated.Slug != "teak-bench" {
		t.Fatalf("expected teak-bench, got %q", regenerated.Slug)
	}
	if _, err := svc.GetBySlug(ctx, "pine-bench"); !catalog.IsNotFound(err) {
		t.Fatalf("old slug should be released, got %v", err)
	}

	again, err := svc.RegenerateSlug(ctx, created.ID, slugs.LanguageEn)
	if err != nil {
		t.Fatalf("RegenerateSlug again: %v", err)
	}
	if again.Slug != "teak-bench" {
		t.Fatalf("regenerating an unchanged name must keep the slug, got %q", again.Slug)
	}
}

func TestUpdateExplicitSlugConflict(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, catalog.NewMemoryRepository())

	a, _ := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Alpha"}})
	if _, err := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Beta"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(ctx, catalog.UpdateProductRequest{ID: a.ID, Slug: ptr("beta")}); !errors.Is(err, catalog.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	if _, err := svc.Update(ctx, catalog.UpdateProductRequest{ID: a.ID, Slug: ptr("Alpha")}); err != nil {
		t.Fatalf("claiming own slug should succeed, got %v", err)
	}
	if _, err := svc.Update(ctx, catalog.UpdateProductRequest{ID: uuid.New()}); !catalog.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewMemoryRepository()
	svc := newService(t, repo)

	for _, name := range []string{"Chair A", "Chair B", "Table A"} {
		category := "chairs"
		if strings.HasPrefix(name, "Table") {
			category = "tables"
		}
		if _, err := svc.Create(ctx, catalog.CreateProductRequest{
			Name:     domain.Text{En: name},
			Category: category,
			Status:   "published",
			Featured: name == "Chair B",
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	chairs, total, err := svc.List(ctx, catalog.ListOptions{Category: "chairs"})
	if err != nil || total != 2 || len(chairs) != 2 {
		t.Fatalf("expected 2 chairs, got %d/%d (%v)", len(chairs), total, err)
	}
	featured, _, _ := svc.List(ctx, catalog.ListOptions{Featured: ptr(true)})
	if len(featured) != 1 || featured[0].Slug != "chair-b" {
		t.Fatalf("unexpected featured %+v", featured)
	}
	page, total, _ := svc.List(ctx, catalog.ListOptions{Limit: 2, Offset: 2})
	if total != 3 || len(page) != 1 {
		t.Fatalf("expected last page of 1 out of 3, got %d/%d", len(page), total)
	}
	drafts, _, _ := svc.List(ctx, catalog.ListOptions{Status: domain.StatusDraft})
	if len(drafts) != 0 {
		t.Fatalf("expected no drafts, got %d", len(drafts))
	}
}

func TestDeleteReleasesSlug(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, catalog.NewMemoryRepository())

	p, _ := svc.Create(ctx, catalog.CreateProductRequest{Name: domain.Text{En: "Stool"}})
	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); !catalog.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	ok, err := svc.SlugAvailable(ctx, "stool")
	if err != nil || !ok {
		t.Fatalf("expected slug to be available again, got %v (%v)", ok, err)
	}
}

// racingRepository inserts a competing product right before the first
// Create so the check-then-act window is exercised.
type racingRepository struct {
	*catalog.MemoryRepository
	raced bool
}

func (r *racingRepository) Create(ctx context.Context, record *catalog.Product) (*catalog.Product, error) {
	if !r.raced {
		r.raced = true
		competitor := &catalog.Product{ID: uuid.New(), Slug: record.Slug, Name: domain.Text{En: "competitor"}}
		if _, err := r.MemoryRepository.Create(ctx, competitor); err != nil {
			return nil, err
		}
	}
	return r.MemoryRepository.Create(ctx, record)
}

func TestCreateRetriesAfterStoreConflict(t *testing.T) {
	repo := &racingRepository{MemoryRepository: catalog.NewMemoryRepository()}
	svc := newService(t, repo)

	created, err := svc.Create(context.Background(), catalog.CreateProductRequest{Name: domain.Text{En: "Oak Table"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug != "oak-table-1" {
		t.Fatalf("expected retry to pick oak-table-1, got %q", created.Slug)
	}
}
