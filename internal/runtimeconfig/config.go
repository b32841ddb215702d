package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

var ErrStorageProviderUnknown = errors.New("deepwood config: storage provider is invalid")
var ErrStorageDialectUnknown = errors.New("deepwood config: storage dialect is invalid")
var ErrStorageDSNRequired = errors.New("deepwood config: storage dsn is required for the bun provider")
var ErrMongoURIRequired = errors.New("deepwood config: mongo uri is required for the mongo provider")
var ErrMongoDatabaseRequired = errors.New("deepwood config: mongo database is required for the mongo provider")
var ErrLocalesRequired = errors.New("deepwood config: at least one locale is required")
var ErrLocaleUnsupported = errors.New("deepwood config: locale has no slug language")
var ErrLocaleDuplicate = errors.New("deepwood config: locale declared twice")
var ErrDefaultLocaleUnknown = errors.New("deepwood config: default locale is not declared")
var ErrSlugLimitsInvalid = errors.New("deepwood config: slug limits are invalid")
var ErrCurrencyInvalid = errors.New("deepwood config: currency must be a three letter ISO code")
var ErrLoggingProviderUnknown = errors.New("deepwood config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("deepwood config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("deepwood config: logging format is invalid")

// Config aggregates storage, slug, locale and logging settings for the storefront.
type Config struct {
	DefaultLocale string           `yaml:"default_locale" env:"DEFAULT_LOCALE"`
	Locales       []LocaleConfig   `yaml:"locales"`
	Storage       StorageConfig    `yaml:"storage"        envPrefix:"STORAGE_"`
	Cache         CacheConfig      `yaml:"cache"          envPrefix:"CACHE_"`
	Slugs         SlugConfig       `yaml:"slugs"          envPrefix:"SLUGS_"`
	Routes        RoutesConfig     `yaml:"routes"         envPrefix:"ROUTES_"`
	Catalog       CatalogConfig    `yaml:"catalog"        envPrefix:"CATALOG_"`
	Orders        OrdersConfig     `yaml:"orders"         envPrefix:"ORDERS_"`
	Seed          SeedConfig       `yaml:"seed"           envPrefix:"SEED_"`
	Settings      SettingsDefaults `yaml:"settings"       envPrefix:"SETTINGS_"`
	Logging       LoggingConfig    `yaml:"logging"        envPrefix:"LOGGING_"`
}

// LocaleConfig declares a storefront locale.
type LocaleConfig struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	NativeName string `yaml:"native_name"`
	RTL        bool   `yaml:"rtl"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Provider string      `yaml:"provider" env:"PROVIDER"`
	Dialect  string      `yaml:"dialect"  env:"DIALECT"`
	DSN      string      `yaml:"dsn"      env:"DSN"`
	Migrate  bool        `yaml:"migrate"  env:"MIGRATE"`
	Mongo    MongoConfig `yaml:"mongo"    envPrefix:"MONGO_"`
}

// MongoConfig mirrors the client options used by the mongo adapter.
type MongoConfig struct {
	URI             string        `yaml:"uri"               env:"URI"`
	Database        string        `yaml:"database"          env:"DATABASE"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"   env:"CONNECT_TIMEOUT"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"     env:"MAX_POOL_SIZE"`
	MinPoolSize     uint64        `yaml:"min_pool_size"     env:"MIN_POOL_SIZE"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle"     env:"MAX_CONN_IDLE_TIME"`
	RetryAttempts   int           `yaml:"retry_attempts"    env:"RETRY_ATTEMPTS"`
	RetryInterval   time.Duration `yaml:"retry_interval"    env:"RETRY_INTERVAL"`
}

// CacheConfig toggles the repository cache wrapped around bun repositories.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"     env:"ENABLED"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`
}

// SlugConfig feeds slugs.Generator.
type SlugConfig struct {
	MaxLength       int           `yaml:"max_length"       env:"MAX_LENGTH"`
	MaxAttempts     int           `yaml:"max_attempts"     env:"MAX_ATTEMPTS"`
	ConflictRetries int           `yaml:"conflict_retries" env:"CONFLICT_RETRIES"`
	BackoffInitial  time.Duration `yaml:"backoff_initial"  env:"BACKOFF_INITIAL"`
	BackoffMax      time.Duration `yaml:"backoff_max"      env:"BACKOFF_MAX"`
	Transliterate   bool          `yaml:"transliterate"    env:"TRANSLITERATE"`
}

// RoutesConfig configures localized public URLs. Paths overrides route
// templates per locale, e.g. paths.ar.product: /ar/products/:slug.
type RoutesConfig struct {
	BaseURL string                       `yaml:"base_url" env:"BASE_URL"`
	Paths   map[string]map[string]string `yaml:"paths"`
}

// CatalogConfig holds catalog wide defaults.
type CatalogConfig struct {
	DefaultCurrency     string `yaml:"default_currency"      env:"DEFAULT_CURRENCY"`
	AttributeSchemaFile string `yaml:"attribute_schema_file" env:"ATTRIBUTE_SCHEMA_FILE"`
}

// OrdersConfig controls order numbering.
type OrdersConfig struct {
	NumberPrefix string `yaml:"number_prefix" env:"NUMBER_PREFIX"`
}

// SeedConfig points the markdown importer at a directory.
type SeedConfig struct {
	Dir       string `yaml:"dir"       env:"DIR"`
	Pattern   string `yaml:"pattern"   env:"PATTERN"`
	Recursive bool   `yaml:"recursive" env:"RECURSIVE"`
	// RenderHTML stores descriptions as goldmark HTML instead of Markdown.
	RenderHTML bool `yaml:"render_html" env:"RENDER_HTML"`
}

// SettingsDefaults is the value table returned by the settings service until
// an operator saves settings of their own.
type SettingsDefaults struct {
	StoreNameEn  string            `yaml:"store_name_en"  env:"STORE_NAME_EN"`
	StoreNameAr  string            `yaml:"store_name_ar"  env:"STORE_NAME_AR"`
	TaglineEn    string            `yaml:"tagline_en"     env:"TAGLINE_EN"`
	TaglineAr    string            `yaml:"tagline_ar"     env:"TAGLINE_AR"`
	ContactEmail string            `yaml:"contact_email"  env:"CONTACT_EMAIL"`
	Phone        string            `yaml:"phone"          env:"PHONE"`
	WhatsApp     string            `yaml:"whatsapp"       env:"WHATSAPP"`
	AddressEn    string            `yaml:"address_en"     env:"ADDRESS_EN"`
	AddressAr    string            `yaml:"address_ar"     env:"ADDRESS_AR"`
	Currency     string            `yaml:"currency"       env:"CURRENCY"`
	Social       map[string]string `yaml:"social"         env:"SOCIAL"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"   env:"PROVIDER"`
	Level     string   `yaml:"level"      env:"LEVEL"`
	Format    string   `yaml:"format"     env:"FORMAT"`
	AddSource bool     `yaml:"add_source" env:"ADD_SOURCE"`
	Focus     []string `yaml:"focus"      env:"FOCUS"`
}

// DefaultConfig returns an in-memory storefront with English and Arabic locales.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales: []LocaleConfig{
			{Code: "en", Name: "English", NativeName: "English"},
			{Code: "ar", Name: "Arabic", NativeName: "العربية", RTL: true},
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
			DSN:      "file:deepwood.db?cache=shared&_fk=1",
			Mongo: MongoConfig{
				Database:        "deepwood",
				ConnectTimeout:  10 * time.Second,
				MaxPoolSize:     100,
				MinPoolSize:     1,
				MaxConnIdleTime: 300 * time.Second,
				RetryAttempts:   3,
				RetryInterval:   5 * time.Second,
			},
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Slugs: SlugConfig{
			MaxLength:       96,
			MaxAttempts:     slugs.DefaultMaxAttempts,
			ConflictRetries: slugs.DefaultConflictRetries,
			BackoffInitial:  slugs.DefaultBackoffInitial,
			BackoffMax:      slugs.DefaultBackoffMax,
		},
		Routes: RoutesConfig{
			BaseURL: "http://localhost:3000",
		},
		Catalog: CatalogConfig{
			DefaultCurrency: "SAR",
		},
		Orders: OrdersConfig{
			NumberPrefix: "DW",
		},
		Seed: SeedConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Settings: SettingsDefaults{
			StoreNameEn:  "Deep Wood",
			StoreNameAr:  "ديب وود",
			TaglineEn:    "Handcrafted wooden furniture",
			TaglineAr:    "أثاث خشبي مصنوع يدوياً",
			ContactEmail: "info@deepwood.sa",
			Currency:     "SAR",
			Social:       map[string]string{},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		if !isSupportedDialect(cfg.Storage.Dialect) {
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case "mongo":
		if strings.TrimSpace(cfg.Storage.Mongo.URI) == "" {
			return ErrMongoURIRequired
		}
		if strings.TrimSpace(cfg.Storage.Mongo.Database) == "" {
			return ErrMongoDatabaseRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if len(cfg.Locales) == 0 {
		return ErrLocalesRequired
	}
	seen := make(map[string]struct{}, len(cfg.Locales))
	for _, locale := range cfg.Locales {
		code := normalize(locale.Code)
		if _, err := slugs.ParseLanguage(code); err != nil || code == "" {
			return fmt.Errorf("%w: %q", ErrLocaleUnsupported, locale.Code)
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("%w: %s", ErrLocaleDuplicate, code)
		}
		seen[code] = struct{}{}
	}
	if _, ok := seen[normalize(cfg.DefaultLocale)]; !ok {
		return fmt.Errorf("%w: %q", ErrDefaultLocaleUnknown, cfg.DefaultLocale)
	}

	if cfg.Slugs.MaxLength < 0 || cfg.Slugs.MaxAttempts < 1 || cfg.Slugs.ConflictRetries < 0 {
		return ErrSlugLimitsInvalid
	}

	if !isCurrencyCode(cfg.Catalog.DefaultCurrency) {
		return fmt.Errorf("%w: catalog %q", ErrCurrencyInvalid, cfg.Catalog.DefaultCurrency)
	}
	if !isCurrencyCode(cfg.Settings.Currency) {
		return fmt.Errorf("%w: settings %q", ErrCurrencyInvalid, cfg.Settings.Currency)
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDialect(dialect string) bool {
	switch normalize(dialect) {
	case "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
