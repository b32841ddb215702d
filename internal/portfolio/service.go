package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/identity"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes portfolio use-cases.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Update(ctx context.Context, req UpdateProjectRequest) (*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]*Project, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RegenerateSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (*Project, error)
	SuggestSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (string, error)
	SlugAvailable(ctx context.Context, slug string) (bool, error)
}

type CreateProjectRequest struct {
	ID           uuid.UUID
	Slug         string
	SlugLanguage slugs.Language
	Title        domain.Text
	Summary      domain.Text
	Description  domain.Text
	Location     domain.Text
	Year         int
	Images       []string
	Featured     bool
	Status       string
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	ID             uuid.UUID
	Slug           *string
	SlugLanguage   slugs.Language
	RegenerateSlug bool
	Title          *domain.Text
	Summary        *domain.Text
	Description    *domain.Text
	Location       *domain.Text
	Year           *int
	Images         []string
	Featured       *bool
	Status         *string
}

type ServiceOption func(*service)

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

type service struct {
	repo   Repository
	slugs  *slugs.Generator
	now    func() time.Time
	id     IDGenerator
	logger interfaces.Logger
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		slugs:  slugs.NewGenerator(),
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	id := req.ID
	if id == uuid.Nil {
		id = s.id()
	}
	now := s.now().UTC()
	record := &Project{
		ID:          id,
		Title:       req.Title.Trimmed(),
		Summary:     req.Summary.Trimmed(),
		Description: req.Description.Trimmed(),
		Location:    req.Location.Trimmed(),
		Year:        req.Year,
		Images:      cleanImages(req.Images),
		Featured:    req.Featured,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validate(record); err != nil {
		return nil, err
	}

	var saved *Project
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
		_, err = s.slugs.ReserveFirst(ctx, slugCandidates(record, req.SlugLanguage), collection, persist)
	}
	if err != nil {
		return nil, mapSlugError(err)
	}
	s.logger.Info("portfolio.project_created", "project_id", saved.ID, "slug", saved.Slug)
	return saved, nil
}

func (s *service) Update(ctx context.Context, req UpdateProjectRequest) (*Project, error) {
	if req.ID == uuid.Nil {
		return nil, ErrProjectIDMissing
	}
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	next := cloneProject(current)
	next.Title = next.Title.Merge(req.Title)
	next.Summary = next.Summary.Merge(req.Summary)
	next.Description = next.Description.Merge(req.Description)
	next.Location = next.Location.Merge(req.Location)
	if req.Year != nil {
		next.Year = *req.Year
	}
	if req.Images != nil {
		next.Images = cleanImages(req.Images)
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

	var saved *Project
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
		_, err = s.slugs.ReserveFirst(ctx, slugCandidates(next, req.SlugLanguage), collection, persist)
	default:
		err = persist(ctx, current.Slug)
	}
	if err != nil {
		return nil, mapSlugError(err)
	}
	if saved.Slug != current.Slug {
		s.logger.Info("portfolio.slug_changed", "project_id", saved.ID, "from", current.Slug, "to", saved.Slug)
	}
	return saved, nil
}

func (s *service) RegenerateSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (*Project, error) {
	return s.Update(ctx, UpdateProjectRequest{ID: id, RegenerateSlug: true, SlugLanguage: lang})
}

// SuggestSlug computes what RegenerateSlug would assign without writing it.
func (s *service) SuggestSlug(ctx context.Context, id uuid.UUID, lang slugs.Language) (string, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	collection := slugs.Excluding(slugs.CollectionFunc(s.repo.SlugExists), current.Slug)
	slug, err := s.slugs.ReserveFirst(ctx, slugCandidates(current, lang), collection, nil)
	if err != nil {
		return "", mapSlugError(err)
	}
	return slug, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Project, int, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative limit or offset", ErrInvalidProject)
	}
	return s.repo.List(ctx, opts)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrProjectIDMissing
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("portfolio.project_deleted", "project_id", id)
	return nil
}

func (s *service) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	taken, err := s.repo.SlugExists(ctx, slug)
	return !taken, err
}

func slugCandidates(p *Project, lang slugs.Language) []slugs.Candidate {
	candidates := []slugs.Candidate{{Text: p.Title.In(lang), Language: lang}}
	for _, other := range slugs.Languages() {
		if other != lang {
			candidates = append(candidates, slugs.Candidate{Text: p.Title.In(other), Language: other})
		}
	}
	return append(candidates, slugs.Candidate{
		Text:     "project-" + identity.ShortID(p.ID),
		Language: slugs.LanguageEn,
	})
}

func (s *service) validate(p *Project) error {
	if p.Title.IsZero() {
		return ErrTitleRequired
	}
	if p.Year != 0 && (p.Year < 1900 || p.Year > s.now().Year()+1) {
		return ErrYearInvalid
	}
	err := validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.By(textLength(160))),
		validation.Field(&p.Summary, validation.By(textLength(500))),
		validation.Field(&p.Location, validation.By(textLength(160))),
		validation.Field(&p.Images, validation.Each(validation.Length(1, 2048))),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	return nil
}

func textLength(limit int) validation.RuleFunc {
	return func(value any) error {
		text, _ := value.(domain.Text)
		if len([]rune(text.En)) > limit || len([]rune(text.Ar)) > limit {
			return validation.NewError("portfolio.text_too_long", "value is too long")
		}
		return nil
	}
}

func cleanImages(images []string) []string {
	if images == nil {
		return nil
	}
	out := make([]string, 0, len(images))
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if _, dup := seen[img]; img == "" || dup {
			continue
		}
		seen[img] = struct{}{}
		out = append(out, img)
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
