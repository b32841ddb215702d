package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

const (
	RootModule      = "deepwood"
	SlugsModule     = "deepwood.slugs"
	CatalogModule   = "deepwood.catalog"
	PortfolioModule = "deepwood.portfolio"
	OrdersModule    = "deepwood.orders"
	SettingsModule  = "deepwood.settings"
	SeedModule      = "deepwood.seed"
	CommandsModule  = "deepwood.commands"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields the
// no-op logger. Every entry carries a "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches fields when the logger implements FieldsLogger and
// returns it unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fl.WithFields(copied)
}

// Ensure returns logger, or the no-op logger when logger is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
