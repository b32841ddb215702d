package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/commands/seedcmd"
	"github.com/goliatone/go-deepwood/internal/commands/slugcmd"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/locales"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/markdown"
	"github.com/goliatone/go-deepwood/internal/orders"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/routes"
	"github.com/goliatone/go-deepwood/internal/runtimeconfig"
	"github.com/goliatone/go-deepwood/internal/seed"
	"github.com/goliatone/go-deepwood/internal/settings"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/internal/validation"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// Container wires storage, services and command handlers from a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider  interfaces.LoggerProvider
	commandRegistry slugcmd.CommandRegistry
	clock           func() time.Time

	bunDB        *bun.DB
	ownsBunDB    bool
	mongoDB      *mongo.Database
	mongoClient  *mongo.Client
	cacheService repocache.CacheService
	keySerial    repocache.KeySerializer

	productRepo  catalog.Repository
	projectRepo  portfolio.Repository
	orderRepo    orders.Repository
	settingsRepo settings.Repository

	generator *slugs.Generator
	locales   *locales.Registry
	router    *routes.Router

	catalogSvc   catalog.Service
	portfolioSvc portfolio.Service
	ordersSvc    orders.Service
	settingsSvc  settings.Service

	seeder         *seed.Importer
	slugCommands   *slugcmd.HandlerSet
	importCommand  *seedcmd.ImportCatalogHandler
	attributeRules *validation.Schema
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB supplies an open database; the container will not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMongoDatabase supplies a database handle for the mongo provider.
func WithMongoDatabase(db *mongo.Database) Option {
	return func(c *Container) {
		c.mongoDB = db
	}
}

// WithCache overrides the cache service used by bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerial = serializer
	}
}

// WithCommandRegistry registers every command handler with reg.
func WithCommandRegistry(reg slugcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// WithClock overrides the clock handed to every service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewContainer validates cfg and builds every dependency.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	steps := []func(context.Context) error{
		c.configureLocales,
		c.configureSlugs,
		c.configureCache,
		c.configureRepositories,
		c.configureServices,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close(context.Background())
			return nil, err
		}
	}

	c.logger("deepwood").Info("deepwood.container_ready",
		"storage", normalize(cfg.Storage.Provider),
		"cache", c.cacheService != nil,
		"default_locale", c.locales.Default().Code,
	)
	return c, nil
}

func (c *Container) logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

func (c *Container) configureLocales(context.Context) error {
	defs := make([]locales.Definition, 0, len(c.Config.Locales))
	for _, l := range c.Config.Locales {
		defs = append(defs, locales.Definition{Code: l.Code, Name: l.Name, NativeName: l.NativeName, RTL: l.RTL})
	}
	registry, err := locales.New(defs, c.Config.DefaultLocale)
	if err != nil {
		return err
	}
	router, err := routes.New(routes.Config{BaseURL: c.Config.Routes.BaseURL, Paths: c.Config.Routes.Paths}, registry)
	if err != nil {
		return err
	}
	c.locales = registry
	c.router = router
	return nil
}

func (c *Container) configureSlugs(context.Context) error {
	cfg := c.Config.Slugs
	c.generator = slugs.NewGenerator(
		slugs.WithNormalizer(slugs.Normalizer{MaxLength: cfg.MaxLength, Transliterate: cfg.Transliterate}),
		slugs.WithMaxAttempts(cfg.MaxAttempts),
		slugs.WithConflictRetries(cfg.ConflictRetries),
		slugs.WithBackoff(cfg.BackoffInitial, cfg.BackoffMax),
		slugs.WithLogger(c.logger("deepwood.slugs")),
	)
	return nil
}

func (c *Container) configureCache(context.Context) error {
	if !c.Config.Cache.Enabled || normalize(c.Config.Storage.Provider) != "bun" {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerial == nil {
		c.keySerial = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories(ctx context.Context) error {
	switch normalize(c.Config.Storage.Provider) {
	case "bun":
		if c.bunDB == nil {
			db, err := openBunDB(c.Config.Storage)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsBunDB = true
		}
		if c.Config.Storage.Migrate {
			if err := migrate(ctx, c.bunDB); err != nil {
				return err
			}
		}
		c.productRepo = catalog.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerial)
		c.projectRepo = portfolio.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerial)
		c.orderRepo = orders.NewBunRepository(c.bunDB)
		c.settingsRepo = settings.NewBunRepository(c.bunDB)
	case "mongo":
		if c.mongoDB == nil {
			client, db, err := openMongo(ctx, c.Config.Storage.Mongo, c.logger("deepwood.storage"))
			if err != nil {
				return err
			}
			c.mongoClient = client
			c.mongoDB = db
		}
		var err error
		if c.productRepo, err = catalog.NewMongoRepository(ctx, c.mongoDB); err != nil {
			return err
		}
		if c.projectRepo, err = portfolio.NewMongoRepository(ctx, c.mongoDB); err != nil {
			return err
		}
		if c.orderRepo, err = orders.NewMongoRepository(ctx, c.mongoDB); err != nil {
			return err
		}
		// settings is a single small record and has no mongo repository
		c.settingsRepo = settings.NewMemoryRepository()
	default:
		c.productRepo = catalog.NewMemoryRepository()
		c.projectRepo = portfolio.NewMemoryRepository()
		c.orderRepo = orders.NewMemoryRepository()
		c.settingsRepo = settings.NewMemoryRepository()
	}
	return nil
}

func (c *Container) configureServices(context.Context) error {
	if path := strings.TrimSpace(c.Config.Catalog.AttributeSchemaFile); path != "" {
		schema, err := validation.LoadFile(path)
		if err != nil {
			return fmt.Errorf("catalog attribute schema: %w", err)
		}
		c.attributeRules = schema
	}

	c.catalogSvc = catalog.NewService(c.productRepo,
		catalog.WithClock(c.clock),
		catalog.WithSlugGenerator(c.generator),
		catalog.WithDefaultCurrency(c.Config.Catalog.DefaultCurrency),
		catalog.WithAttributeSchema(c.attributeRules),
		catalog.WithLogger(c.logger("deepwood.catalog")),
	)
	c.portfolioSvc = portfolio.NewService(c.projectRepo,
		portfolio.WithClock(c.clock),
		portfolio.WithSlugGenerator(c.generator),
		portfolio.WithLogger(c.logger("deepwood.portfolio")),
	)
	c.ordersSvc = orders.NewService(c.orderRepo, c.catalogSvc,
		orders.WithClock(c.clock),
		orders.WithNumberPrefix(c.Config.Orders.NumberPrefix),
		orders.WithLogger(c.logger("deepwood.orders")),
	)
	c.settingsSvc = settings.NewService(c.settingsRepo, SettingsDefaults(c.Config.Settings),
		settings.WithClock(c.clock),
		settings.WithLogger(c.logger("deepwood.settings")),
	)
	c.seeder = seed.NewImporter(seed.Config{
		Catalog:   c.catalogSvc,
		Portfolio: c.portfolioSvc,
		Pattern:   c.Config.Seed.Pattern,
		Recursive: c.Config.Seed.Recursive,
		Renderer:  renderer(c.Config.Seed),
		Logger:    c.logger("deepwood.seed"),
	})
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	services := slugcmd.Services{Catalog: c.catalogSvc, Portfolio: c.portfolioSvc}
	set, err := slugcmd.RegisterSlugCommands(c.commandRegistry, c.generator, services, c.loggerProvider)
	if err != nil {
		return err
	}
	c.slugCommands = set

	var reg interface{ RegisterCommand(any) error }
	if c.commandRegistry != nil {
		reg = c.commandRegistry
	}
	importer, err := seedcmd.Register(reg, c.seeder, c.loggerProvider)
	if err != nil {
		return err
	}
	c.importCommand = importer
	return nil
}

func renderer(cfg runtimeconfig.SeedConfig) *markdown.Renderer {
	if !cfg.RenderHTML {
		return nil
	}
	return markdown.NewRenderer(markdown.RenderOptions{})
}

// SettingsDefaults converts the config defaults table into settings.
func SettingsDefaults(cfg runtimeconfig.SettingsDefaults) settings.Settings {
	social := make(map[string]string, len(cfg.Social))
	for k, v := range cfg.Social {
		social[k] = v
	}
	return settings.Settings{
		StoreName:    domain.Text{En: cfg.StoreNameEn, Ar: cfg.StoreNameAr},
		Tagline:      domain.Text{En: cfg.TaglineEn, Ar: cfg.TaglineAr},
		ContactEmail: cfg.ContactEmail,
		Phone:        cfg.Phone,
		WhatsApp:     cfg.WhatsApp,
		Address:      domain.Text{En: cfg.AddressEn, Ar: cfg.AddressAr},
		Currency:     cfg.Currency,
		Social:       social,
	}
}

// Close releases connections the container opened itself.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.ownsBunDB && c.bunDB != nil {
		errs = append(errs, c.bunDB.Close())
		c.bunDB = nil
	}
	if c.mongoClient != nil {
		errs = append(errs, c.mongoClient.Disconnect(ctx))
		c.mongoClient = nil
	}
	return errors.Join(errs...)
}

// Healthcheck pings the active database, if any.
func (c *Container) Healthcheck(ctx context.Context) error {
	client := c.mongoClient
	if client == nil && c.mongoDB != nil {
		client = c.mongoDB.Client()
	}
	return healthcheck(ctx, c.bunDB, client)
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) SlugGenerator() *slugs.Generator           { return c.generator }
func (c *Container) Locales() *locales.Registry                { return c.locales }
func (c *Container) Routes() *routes.Router                    { return c.router }
func (c *Container) CatalogService() catalog.Service           { return c.catalogSvc }
func (c *Container) PortfolioService() portfolio.Service       { return c.portfolioSvc }
func (c *Container) OrdersService() orders.Service             { return c.ordersSvc }
func (c *Container) SettingsService() settings.Service         { return c.settingsSvc }
func (c *Container) Seeder() *seed.Importer                    { return c.seeder }
func (c *Container) SlugCommands() *slugcmd.HandlerSet         { return c.slugCommands }
func (c *Container) ImportCommand() *seedcmd.ImportCatalogHandler {
	return c.importCommand
}

// BunDB is nil unless the bun provider is active.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
