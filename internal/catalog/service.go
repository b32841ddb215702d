package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/identity"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/slugs"
	schemavalidation "github.com/goliatone/go-deepwood/internal/validation"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes catalog use-cases.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (*Product, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// RegenerateSlug derives a fresh slug from the product name in lang.
	RegenerateSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (*Product, error)
	// SuggestSlug returns the slug RegenerateSlug would assign, without saving.
	SuggestSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (string, error)
	// SlugAvailable reports whether slug is free in the catalog.
	SlugAvailable(ctx context.Context, slug string) (bool, error)
}

// CreateProductRequest captures the information required to create a product.
// Slug is optional; when empty it is derived from Name in SlugLanguage.
type CreateProductRequest struct {
	ID           uuid.UUID
	Slug         string
	SlugLanguage slugs.Language
	Name         domain.Text
	Description  domain.Text
	Category     string
	Price        int64
	Currency     string
	Images       []string
	Attributes   map[string]any
	Featured     bool
	Status       string
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
// RegenerateSlug re-derives the slug from the (possibly updated) name and is
// ignored when Slug is set.
type UpdateProductRequest struct {
	ID             uuid.UUID
	Slug           *string
	SlugLanguage   slugs.Language
	RegenerateSlug bool
	Name           *domain.Text
	Description    *domain.Text
	Category       *string
	Price          *int64
	Currency       *string
	Images         []string
	Attributes     map[string]any
	Featured       *bool
	Status         *string
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

func WithSlugGenerator(generator *slugs.Generator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.slugs = generator
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithDefaultCurrency sets the currency applied when a request leaves it empty.
func WithDefaultCurrency(code string) ServiceOption {
	return func(s *service) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			s.currency = code
		}
	}
}

// WithAttributeSchema validates product attributes against schema.
func WithAttributeSchema(schema *schemavalidation.Schema) ServiceOption {
	return func(s *service) {
		s.attributes = schema
	}
}

type service struct {
	repo       Repository
	slugs      *slugs.Generator
	now        func() time.Time
	id         IDGenerator
	currency   string
	attributes *schemavalidation.Schema
	logger     interfaces.Logger
}

// NewService constructs a catalog service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		slugs:    slugs.NewGenerator(),
		now:      time.Now,
		id:       uuid.New,
		currency: "SAR",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	id := req.ID
	if id == uuid.Nil {
		id = s.id()
	}
	now := s.now().UTC()
	record := &Product{
		ID:          id,
		Name:        req.Name.Trimmed(),
		Description: req.Description.Trimmed(),
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Currency:    s.normalizeCurrency(req.Currency),
		Images:      cleanImages(req.Images),
		Attributes:  maps.Clone(req.Attributes),
		Featured:    req.Featured,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validate(record); err != nil {
		return nil, err
	}

	var saved *Product
	persist := func(ctx context.Context, slug string) error {
		record.Slug = slug
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return err
		}
		saved = created
		return nil
	}

	collection := slugs.CollectionFunc(s.repo.SlugExists)
	if strings.TrimSpace(req.Slug) != "" {
		_, err = s.slugs.Claim(ctx, req.Slug, req.SlugLanguage, collection, persist)
	} else {
		_, err = s.slugs.ReserveFirst(ctx, s.slugCandidates(record, req.SlugLanguage), collection, persist)
	}
	if err != nil {
		return nil, mapSlugError(err)
	}

	s.logger.Info("catalog.product_created", "product_id", saved.ID, "slug", saved.Slug)
	return saved, nil
}

func (s *service) Update(ctx context.Context, req UpdateProductRequest) (*Product, error) {
	if req.ID == uuid.Nil {
		return nil, ErrProductIDMissing
	}
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	next := cloneProduct(current)
	next.Name = next.Name.Merge(req.Name)
	next.Description = next.Description.Merge(req.Description)
	if req.Category != nil {
		next.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		next.Price = *req.Price
	}
	if req.Currency != nil {
		next.Currency = s.normalizeCurrency(*req.Currency)
	}
	if req.Images != nil {
		next.Images = cleanImages(req.Images)
	}
	if req.Attributes != nil {
		next.Attributes = maps.Clone(req.Attributes)
	}
	if req.Featured != nil {
		next.Featured = *req.Featured
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		next.Status = status
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.validate(next); err != nil {
		return nil, err
	}

	var saved *Product
	persist := func(ctx context.Context, slug string) error {
		next.Slug = slug
		updated, err := s.repo.Update(ctx, next)
		if err != nil {
			return err
		}
		saved = updated
		return nil
	}

	collection := slugs.Excluding(slugs.CollectionFunc(s.repo.SlugExists), current.Slug)
	switch {
	case req.Slug != nil:
		_, err = s.slugs.Claim(ctx, *req.Slug, req.SlugLanguage, collection, persist)
	case req.RegenerateSlug:
		_, err = s.slugs.ReserveFirst(ctx, s.slugCandidates(next, req.SlugLanguage), collection, persist)
	default:
		err = persist(ctx, current.Slug)
	}
	if err != nil {
		return nil, mapSlugError(err)
	}

	if saved.Slug != current.Slug {
		s.logger.Info("catalog.slug_changed", "product_id", saved.ID, "from", current.Slug, "to", saved.Slug)
	}
	return saved, nil
}

func (s *service) RegenerateSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (*Product, error) {
	return s.Update(ctx, UpdateProductRequest{ID: id, RegenerateSlug: true, SlugLanguage: lang})
}

func (s *service) SuggestSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (string, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	collection := slugs.Excluding(slugs.CollectionFunc(s.repo.SlugExists), current.Slug)
	slug, err := s.slugs.ReserveFirst(ctx, s.slugCandidates(current, lang), collection, nil)
	if err != nil {
		return "", mapSlugError(err)
	}
	return slug, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, int, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative limit or offset", ErrInvalidProduct)
	}
	return s.repo.List(ctx, opts)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrProductIDMissing
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("catalog.product_deleted", "product_id", id)
	return nil
}

func (s *service) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	taken, err := s.repo.SlugExists(ctx, slug)
	return !taken, err
}

// slugCandidates lists the texts tried in order: the name in lang, the name
// in the other language, then an id-derived token that is never empty.
func (s *service) slugCandidates(p *Product, lang slugs.Language) []slugs.Candidate {
	candidates := make([]slugs.Candidate, 0, len(slugs.Languages())+1)
	candidates = append(candidates, slugs.Candidate{Text: p.Name.In(lang), Language: lang})
	for _, other := range slugs.Languages() {
		if other != lang {
			candidates = append(candidates, slugs.Candidate{Text: p.Name.In(other), Language: other})
		}
	}
	return append(candidates, slugs.Candidate{
		Text:     "product-" + identity.ShortID(p.ID),
		Language: slugs.LanguageEn,
	})
}

func (s *service) normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.currency
	}
	return code
}

func (s *service) validate(p *Product) error {
	if p.Name.IsZero() {
		return ErrNameRequired
	}
	if p.Price < 0 {
		return ErrPriceInvalid
	}
	err := validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.By(textLength(160))),
		validation.Field(&p.Description, validation.By(textLength(20000))),
		validation.Field(&p.Category, validation.Length(0, 80)),
		validation.Field(&p.Currency, validation.Required, validation.Match(currencyPattern)),
		validation.Field(&p.Images, validation.Each(validation.Length(1, 2048))),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if err := s.attributes.Validate(p.Attributes); err != nil {
		return fmt.Errorf("%w: %w", ErrAttributesSchema, err)
	}
	return nil
}

func textLength(limit int) validation.RuleFunc {
	return func(value any) error {
		text, _ := value.(domain.Text)
		if len([]rune(text.En)) > limit || len([]rune(text.Ar)) > limit {
			return validation.NewError("catalog.text_too_long", "value is too long")
		}
		return nil
	}
}

func cleanImages(images []string) []string {
	if images == nil {
		return nil
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" && !slices.Contains(out, img) {
			out = append(out, img)
		}
	}
	return out
}

func mapSlugError(err error) error {
	switch {
	case errors.Is(err, slugs.ErrConflict):
		return fmt.Errorf("%w: %w", ErrSlugExists, err)
	case errors.Is(err, slugs.ErrEmptySlug):
		return ErrSlugInvalid
	default:
		return err
	}
}
