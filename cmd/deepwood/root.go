package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-deepwood"
	"github.com/spf13/cobra"
)

type moduleFactory func(ctx context.Context, cfg deepwood.Config) (*deepwood.Module, error)

type app struct {
	configPath string
	storage    string
	dsn        string
	migrate    bool
	newModule  moduleFactory
}

func newRootCmd() *cobra.Command {
	return newApp(func(ctx context.Context, cfg deepwood.Config) (*deepwood.Module, error) {
		return deepwood.NewWithContext(ctx, cfg)
	}).rootCmd()
}

func newApp(factory moduleFactory) *app {
	return &app{newModule: factory}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deepwood",
		Short:         "Deep Wood storefront tooling",
		Long:          "Manage the Deep Wood catalog, portfolio and bilingual slugs from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.storage, "storage", "", "storage provider override (memory, bun, mongo)")
	flags.StringVar(&a.dsn, "dsn", "", "bun DSN override")
	flags.BoolVar(&a.migrate, "migrate", false, "create missing tables before running")

	root.AddCommand(
		a.slugCmd(),
		a.regenerateCmd(),
		a.seedCmd(),
		a.productsCmd(),
		a.projectsCmd(),
		a.settingsCmd(),
	)
	return root
}

func (a *app) loadConfig() (deepwood.Config, error) {
	cfg, err := deepwood.LoadConfig(a.configPath)
	if err != nil {
		return cfg, err
	}
	if provider := strings.TrimSpace(a.storage); provider != "" {
		cfg.Storage.Provider = provider
	}
	if dsn := strings.TrimSpace(a.dsn); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if a.migrate {
		cfg.Storage.Migrate = true
	}
	return cfg, nil
}

// withModule opens a module for the lifetime of fn.
func (a *app) withModule(cmd *cobra.Command, fn func(context.Context, *deepwood.Module) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	module, err := a.newModule(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storefront: %w", err)
	}
	defer module.Close(context.Background())
	return fn(ctx, module)
}
