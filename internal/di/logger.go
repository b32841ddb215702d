package di

import (
	"github.com/goliatone/go-deepwood/internal/logging/console"
	"github.com/goliatone/go-deepwood/internal/logging/gologger"
	"github.com/goliatone/go-deepwood/internal/runtimeconfig"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	if normalize(cfg.Provider) == "gologger" {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	}
	return console.NewProvider(console.Options{MinLevel: console.ParseLevel(cfg.Level)}), nil
}
