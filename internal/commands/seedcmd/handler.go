package seedcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-deepwood/internal/commands"
	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/internal/seed"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

const importOperation = "seed.import_catalog"

var _ command.Commander[ImportCatalogCommand] = (*ImportCatalogHandler)(nil)

// Importer is the part of seed.Importer the handler needs.
type Importer interface {
	ImportDirectory(ctx context.Context, dir string) (*seed.Report, error)
}

type ImportCatalogHandler struct {
	inner    *commands.Handler[ImportCatalogCommand]
	importer Importer
	logger   interfaces.Logger
}

func NewImportCatalogHandler(importer Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportCatalogCommand]) *ImportCatalogHandler {
	h := &ImportCatalogHandler{importer: importer, logger: logging.Ensure(logger)}
	exec := func(ctx context.Context, msg ImportCatalogCommand) error {
		_, err := h.Import(ctx, msg)
		return err
	}
	handlerOpts := []commands.HandlerOption[ImportCatalogCommand]{
		commands.WithLogger[ImportCatalogCommand](h.logger),
		commands.WithOperation[ImportCatalogCommand](importOperation),
		commands.WithTimeout[ImportCatalogCommand](5 * commands.DefaultCommandTimeout),
	}
	h.inner = commands.NewHandler(exec, append(handlerOpts, opts...)...)
	return h
}

func (h *ImportCatalogHandler) Execute(ctx context.Context, msg ImportCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Import runs the import and returns its report.
func (h *ImportCatalogHandler) Import(ctx context.Context, msg ImportCatalogCommand) (*seed.Report, error) {
	report, err := h.importer.ImportDirectory(ctx, msg.Directory)
	if err != nil {
		return report, err
	}
	logging.WithFields(h.logger, map[string]any{
		"directory": msg.Directory,
		"created":   len(report.Created),
		"skipped":   len(report.Skipped),
		"failed":    len(report.Errors),
	}).Info("seed.command.import_catalog.completed")
	if msg.FailOnError {
		return report, report.Err()
	}
	return report, nil
}

// Register registers the import handler with reg when it is non-nil.
func Register(reg interface{ RegisterCommand(any) error }, importer Importer, provider interfaces.LoggerProvider) (*ImportCatalogHandler, error) {
	handler := NewImportCatalogHandler(importer, commands.CommandLogger(provider, "seed"))
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
