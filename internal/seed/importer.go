package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/identity"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/markdown"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

const (
	KindProduct = "product"
	KindProject = "project"
)

var (
	ErrUnknownKind       = errors.New("seed: unknown document kind")
	ErrServiceMissing    = errors.New("seed: no service configured for kind")
	ErrDirectoryRequired = errors.New("seed: directory is required")
)

// Config wires the services documents are imported into. A nil service makes
// documents of that kind fail.
type Config struct {
	Catalog   catalog.Service
	Portfolio portfolio.Service
	Logger    interfaces.Logger
	// Renderer, when set, stores descriptions as HTML instead of Markdown.
	Renderer *markdown.Renderer
	// Pattern filters file names; empty means *.md.
	Pattern   string
	Recursive bool
}

// Importer creates catalog and portfolio entries from Markdown seed files.
type Importer struct {
	catalog   catalog.Service
	portfolio portfolio.Service
	renderer  *markdown.Renderer
	pattern   string
	recursive bool
	logger    interfaces.Logger
}

// Report summarises an import run. Created and Skipped hold document paths.
type Report struct {
	Created []string
	Skipped []string
	Errors  map[string]error
}

func (r *Report) fail(path string, err error) {
	if r.Errors == nil {
		r.Errors = map[string]error{}
	}
	r.Errors[path] = err
}

// Err joins the per-document failures, or returns nil.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for path, err := range r.Errors {
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	return errors.Join(errs...)
}

func NewImporter(cfg Config) *Importer {
	return &Importer{
		catalog:   cfg.Catalog,
		portfolio: cfg.Portfolio,
		renderer:  cfg.Renderer,
		pattern:   cfg.Pattern,
		recursive: cfg.Recursive,
		logger:    logging.Ensure(cfg.Logger),
	}
}

// ImportDirectory imports every *.md file under dir on the local disk.
func (i *Importer) ImportDirectory(ctx context.Context, dir string) (*Report, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrDirectoryRequired
	}
	return i.ImportFS(ctx, os.DirFS(dir), ".")
}

// ImportFS imports documents found under root in fsys. Re-running an import
// skips documents whose entity already exists.
func (i *Importer) ImportFS(ctx context.Context, fsys fs.FS, root string) (*Report, error) {
	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{Pattern: i.pattern, Recursive: i.recursive})
	docs, failures, err := loader.LoadDirectory(ctx, root)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for path, err := range failures {
		report.fail(path, err)
	}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		created, err := i.importDocument(ctx, doc)
		switch {
		case err != nil:
			report.fail(doc.Path, err)
			i.logger.Warn("seed.document_failed", "path", doc.Path, "error", err)
		case created:
			report.Created = append(report.Created, doc.Path)
		default:
			report.Skipped = append(report.Skipped, doc.Path)
		}
	}
	i.logger.Info("seed.import_completed",
		"created", len(report.Created),
		"skipped", len(report.Skipped),
		"failed", len(report.Errors),
	)
	return report, nil
}

func (i *Importer) importDocument(ctx context.Context, doc *markdown.Document) (bool, error) {
	meta := doc.Meta
	lang, err := slugs.ParseLanguage(meta.SlugLanguage)
	if err != nil {
		return false, err
	}
	description := doc.DescriptionText()
	if i.renderer != nil {
		if description, err = i.renderer.RenderText(description); err != nil {
			return false, err
		}
	}

	switch meta.Kind {
	case KindProduct:
		if i.catalog == nil {
			return false, fmt.Errorf("%w: %s", ErrServiceMissing, meta.Kind)
		}
		id := identity.SeedUUID(KindProduct, documentKey(doc))
		if exists, err := found(i.catalog.Get(ctx, id)); err != nil || exists {
			return false, err
		}
		_, err = i.catalog.Create(ctx, catalog.CreateProductRequest{
			ID:           id,
			Slug:         meta.Slug,
			SlugLanguage: lang,
			Name:         meta.DisplayName(),
			Description:  description,
			Category:     meta.Category,
			Price:        meta.Price,
			Currency:     meta.Currency,
			Images:       meta.Images,
			Attributes:   meta.Attributes,
			Featured:     meta.Featured,
			Status:       meta.Status,
		})
	case KindProject:
		if i.portfolio == nil {
			return false, fmt.Errorf("%w: %s", ErrServiceMissing, meta.Kind)
		}
		id := identity.SeedUUID(KindProject, documentKey(doc))
		if exists, err := foundProject(i.portfolio.Get(ctx, id)); err != nil || exists {
			return false, err
		}
		_, err = i.portfolio.Create(ctx, portfolio.CreateProjectRequest{
			ID:           id,
			Slug:         meta.Slug,
			SlugLanguage: lang,
			Title:        meta.DisplayName(),
			Summary:      meta.Summary.Trimmed(),
			Description:  description,
			Location:     meta.Location.Trimmed(),
			Year:         meta.Year,
			Images:       meta.Images,
			Featured:     meta.Featured,
			Status:       meta.Status,
		})
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, meta.Kind)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// documentKey is the frontmatter key, or the file path without extension.
func documentKey(doc *markdown.Document) string {
	if key := strings.TrimSpace(doc.Meta.Key); key != "" {
		return key
	}
	return strings.TrimSuffix(doc.Path, path.Ext(doc.Path))
}

func found(_ *catalog.Product, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if catalog.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func foundProject(_ *portfolio.Project, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if portfolio.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
