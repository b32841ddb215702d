package commands

import (
	"strings"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// CommandLogger names handler loggers deepwood.commands.<group>.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "core"
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, "deepwood.commands."+group),
		map[string]any{"command_group": group},
	)
}
