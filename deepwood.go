// Package deepwood is the storefront core: bilingual slugs, catalog,
// portfolio, orders and store settings behind one Module.
package deepwood

import (
	"context"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/commands/seedcmd"
	"github.com/goliatone/go-deepwood/internal/commands/slugcmd"
	"github.com/goliatone/go-deepwood/internal/di"
	"github.com/goliatone/go-deepwood/internal/locales"
	"github.com/goliatone/go-deepwood/internal/orders"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/routes"
	"github.com/goliatone/go-deepwood/internal/seed"
	"github.com/goliatone/go-deepwood/internal/settings"
	"github.com/goliatone/go-deepwood/internal/slugs"
)

type (
	CatalogService   = catalog.Service
	PortfolioService = portfolio.Service
	OrdersService    = orders.Service
	SettingsService  = settings.Service
	SlugGenerator    = *slugs.Generator
	LocaleRegistry   = *locales.Registry
	Router           = *routes.Router
	Seeder           = *seed.Importer
)

// Commands groups the command handlers exposed by the module.
type Commands struct {
	PreviewSlug     *slugcmd.PreviewHandler
	RegenerateSlugs *slugcmd.RegenerateHandler
	ImportCatalog   *seedcmd.ImportCatalogHandler
}

// Module is the storefront runtime façade.
type Module struct {
	container *di.Container
}

// New builds a Module from cfg. Storage connections are opened eagerly.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	return NewWithContext(context.Background(), cfg, opts...)
}

// NewWithContext is New with a context bounding the storage connect.
func NewWithContext(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Catalog() CatalogService {
	return m.container.CatalogService()
}

func (m *Module) Portfolio() PortfolioService {
	return m.container.PortfolioService()
}

func (m *Module) Orders() OrdersService {
	return m.container.OrdersService()
}

func (m *Module) Settings() SettingsService {
	return m.container.SettingsService()
}

func (m *Module) Locales() LocaleRegistry {
	return m.container.Locales()
}

func (m *Module) Routes() Router {
	return m.container.Routes()
}

// Slugs returns the shared generator configured from Config.Slugs.
func (m *Module) Slugs() SlugGenerator {
	return m.container.SlugGenerator()
}

func (m *Module) Seeder() Seeder {
	return m.container.Seeder()
}

func (m *Module) Commands() Commands {
	set := m.container.SlugCommands()
	return Commands{
		PreviewSlug:     set.Preview,
		RegenerateSlugs: set.Regenerate,
		ImportCatalog:   m.container.ImportCommand(),
	}
}

// Healthcheck pings the configured database.
func (m *Module) Healthcheck(ctx context.Context) error {
	return m.container.Healthcheck(ctx)
}

// Close releases database connections opened by the module.
func (m *Module) Close(ctx context.Context) error {
	return m.container.Close(ctx)
}
