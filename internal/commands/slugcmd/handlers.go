package slugcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/commands"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

const (
	previewOperation    = "slugs.preview"
	regenerateOperation = "slugs.regenerate"
	pageSize            = 100
)

var ErrServiceMissing = errors.New("slug command: service for collection is not configured")

var (
	_ command.Commander[PreviewSlugCommand]     = (*PreviewHandler)(nil)
	_ command.Commander[RegenerateSlugsCommand] = (*RegenerateHandler)(nil)
)

// Services are the slug namespaces the handlers operate on. Either may be nil.
type Services struct {
	Catalog   catalog.Service
	Portfolio portfolio.Service
}

func (s Services) collection(name Collection) (slugs.Collection, error) {
	switch name {
	case CollectionProducts:
		if s.Catalog != nil {
			return available(s.Catalog.SlugAvailable), nil
		}
	case CollectionProjects:
		if s.Portfolio != nil {
			return available(s.Portfolio.SlugAvailable), nil
		}
	}
	return nil, ErrServiceMissing
}

// available adapts a SlugAvailable method into a Collection.
func available(fn func(context.Context, string) (bool, error)) slugs.Collection {
	return slugs.CollectionFunc(func(ctx context.Context, slug string) (bool, error) {
		free, err := fn(ctx, slug)
		return !free, err
	})
}

// Preview is the outcome of a PreviewSlugCommand.
type Preview struct {
	Base     string
	Slug     string
	Language slugs.Language
}

// PreviewHandler answers PreviewSlugCommand.
type PreviewHandler struct {
	inner     *commands.Handler[PreviewSlugCommand]
	generator *slugs.Generator
	services  Services
	logger    interfaces.Logger
}

func NewPreviewHandler(generator *slugs.Generator, services Services, logger interfaces.Logger, opts ...commands.HandlerOption[PreviewSlugCommand]) *PreviewHandler {
	if generator == nil {
		generator = slugs.NewGenerator()
	}
	h := &PreviewHandler{generator: generator, services: services, logger: logging.Ensure(logger)}
	exec := func(ctx context.Context, msg PreviewSlugCommand) error {
		preview, err := h.Preview(ctx, msg)
		if err != nil {
			return err
		}
		h.logger.Info("slugs.command.preview", "base", preview.Base, "slug", preview.Slug, "language", preview.Language)
		return nil
	}
	handlerOpts := []commands.HandlerOption[PreviewSlugCommand]{
		commands.WithLogger[PreviewSlugCommand](h.logger),
		commands.WithOperation[PreviewSlugCommand](previewOperation),
	}
	h.inner = commands.NewHandler(exec, append(handlerOpts, opts...)...)
	return h
}

func (h *PreviewHandler) Execute(ctx context.Context, msg PreviewSlugCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Preview computes the unique slug for msg without reserving it.
func (h *PreviewHandler) Preview(ctx context.Context, msg PreviewSlugCommand) (Preview, error) {
	lang, err := slugs.ParseLanguage(msg.Language)
	if err != nil {
		return Preview{}, err
	}
	collection, err := h.services.collection(msg.Collection)
	if err != nil {
		return Preview{}, err
	}
	slug, err := h.generator.MakeUnique(ctx, msg.Text, collection, lang)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Base: h.generator.Normalize(msg.Text, lang), Slug: slug, Language: lang}, nil
}

// RegenerateReport lists old -> new slugs per collection.
type RegenerateReport struct {
	Changed map[Collection]map[string]string
	Checked int
}

func (r *RegenerateReport) record(coll Collection, from, to string) {
	if r.Changed == nil {
		r.Changed = map[Collection]map[string]string{}
	}
	if r.Changed[coll] == nil {
		r.Changed[coll] = map[string]string{}
	}
	r.Changed[coll][from] = to
}

// RegenerateHandler answers RegenerateSlugsCommand.
type RegenerateHandler struct {
	inner    *commands.Handler[RegenerateSlugsCommand]
	services Services
	logger   interfaces.Logger
}

func NewRegenerateHandler(services Services, logger interfaces.Logger, opts ...commands.HandlerOption[RegenerateSlugsCommand]) *RegenerateHandler {
	h := &RegenerateHandler{services: services, logger: logging.Ensure(logger)}
	exec := func(ctx context.Context, msg RegenerateSlugsCommand) error {
		report, err := h.Regenerate(ctx, msg)
		if err != nil {
			return err
		}
		logging.WithFields(h.logger, map[string]any{
			"checked":  report.Checked,
			"products": len(report.Changed[CollectionProducts]),
			"projects": len(report.Changed[CollectionProjects]),
			"dry_run":  msg.DryRun,
		}).Info("slugs.command.regenerate.completed")
		return nil
	}
	handlerOpts := []commands.HandlerOption[RegenerateSlugsCommand]{
		commands.WithLogger[RegenerateSlugsCommand](h.logger),
		commands.WithOperation[RegenerateSlugsCommand](regenerateOperation),
		commands.WithTimeout[RegenerateSlugsCommand](5 * commands.DefaultCommandTimeout),
	}
	h.inner = commands.NewHandler(exec, append(handlerOpts, opts...)...)
	return h
}

func (h *RegenerateHandler) Execute(ctx context.Context, msg RegenerateSlugsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Regenerate walks the requested collections and rebuilds broken slugs.
func (h *RegenerateHandler) Regenerate(ctx context.Context, msg RegenerateSlugsCommand) (*RegenerateReport, error) {
	lang, err := slugs.ParseLanguage(msg.Language)
	if err != nil {
		return nil, err
	}
	report := &RegenerateReport{}
	coll := ParseCollection(string(msg.Collection))

	if coll == CollectionProducts || coll == CollectionAll {
		if h.services.Catalog == nil {
			if coll == CollectionProducts {
				return nil, ErrServiceMissing
			}
		} else if err := h.regenerateProducts(ctx, lang, msg.DryRun, report); err != nil {
			return report, err
		}
	}
	if coll == CollectionProjects || coll == CollectionAll {
		if h.services.Portfolio == nil {
			if coll == CollectionProjects {
				return nil, ErrServiceMissing
			}
		} else if err := h.regenerateProjects(ctx, lang, msg.DryRun, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (h *RegenerateHandler) regenerateProducts(ctx context.Context, lang slugs.Language, dryRun bool, report *RegenerateReport) error {
	var stale []*catalog.Product
	for offset := 0; ; offset += pageSize {
		page, total, err := h.services.Catalog.List(ctx, catalog.ListOptions{Limit: pageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, p := range page {
			report.Checked++
			if needsSlug(p.Slug) {
				stale = append(stale, p)
			}
		}
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}
	// rewrite after listing so changed rows do not shift the pages
	for _, p := range stale {
		if dryRun {
			suggested, err := h.services.Catalog.SuggestSlug(ctx, p.ID, lang)
			if err != nil {
				return err
			}
			report.record(CollectionProducts, p.Slug, suggested)
			continue
		}
		updated, err := h.services.Catalog.RegenerateSlug(ctx, p.ID, lang)
		if err != nil {
			return err
		}
		report.record(CollectionProducts, p.Slug, updated.Slug)
	}
	return nil
}

func (h *RegenerateHandler) regenerateProjects(ctx context.Context, lang slugs.Language, dryRun bool, report *RegenerateReport) error {
	var stale []*portfolio.Project
	for offset := 0; ; offset += pageSize {
		page, total, err := h.services.Portfolio.List(ctx, portfolio.ListOptions{Limit: pageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, p := range page {
			report.Checked++
			if needsSlug(p.Slug) {
				stale = append(stale, p)
			}
		}
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}
	for _, p := range stale {
		if dryRun {
			suggested, err := h.services.Portfolio.SuggestSlug(ctx, p.ID, lang)
			if err != nil {
				return err
			}
			report.record(CollectionProjects, p.Slug, suggested)
			continue
		}
		updated, err := h.services.Portfolio.RegenerateSlug(ctx, p.ID, lang)
		if err != nil {
			return err
		}
		report.record(CollectionProjects, p.Slug, updated.Slug)
	}
	return nil
}

func needsSlug(slug string) bool {
	for _, lang := range slugs.Languages() {
		if slugs.IsValid(slug, lang) {
			return false
		}
	}
	return true
}
