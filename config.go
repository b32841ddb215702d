package deepwood

import "github.com/goliatone/go-deepwood/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown  = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrMongoURIRequired       = runtimeconfig.ErrMongoURIRequired
	ErrLocalesRequired        = runtimeconfig.ErrLocalesRequired
	ErrDefaultLocaleUnknown   = runtimeconfig.ErrDefaultLocaleUnknown
	ErrSlugLimitsInvalid      = runtimeconfig.ErrSlugLimitsInvalid
	ErrCurrencyInvalid        = runtimeconfig.ErrCurrencyInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
)

type (
	Config           = runtimeconfig.Config
	LocaleConfig     = runtimeconfig.LocaleConfig
	StorageConfig    = runtimeconfig.StorageConfig
	MongoConfig      = runtimeconfig.MongoConfig
	CacheConfig      = runtimeconfig.CacheConfig
	SlugConfig       = runtimeconfig.SlugConfig
	RoutesConfig     = runtimeconfig.RoutesConfig
	CatalogConfig    = runtimeconfig.CatalogConfig
	OrdersConfig     = runtimeconfig.OrdersConfig
	SeedConfig       = runtimeconfig.SeedConfig
	SettingsDefaults = runtimeconfig.SettingsDefaults
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns an in-memory storefront with English and Arabic locales.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig layers a YAML file, .env and DEEPWOOD_* variables over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
