package slugcmd

import (
	"github.com/goliatone/go-deepwood/internal/commands"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// CommandRegistry is the registration contract used when wiring handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the slug command handlers.
type HandlerSet struct {
	Preview    *PreviewHandler
	Regenerate *RegenerateHandler
}

// RegisterSlugCommands builds the slug handlers and registers them with reg
// when it is non-nil.
func RegisterSlugCommands(reg CommandRegistry, generator *slugs.Generator, services Services, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	logger := commands.CommandLogger(provider, "slugs")
	set := &HandlerSet{
		Preview:    NewPreviewHandler(generator, services, logger),
		Regenerate: NewRegenerateHandler(services, logger),
	}
	if reg != nil {
		if err := reg.RegisterCommand(set.Preview); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Regenerate); err != nil {
			return nil, err
		}
	}
	return set, nil
}
