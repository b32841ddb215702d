package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-deepwood"
	"github.com/goliatone/go-deepwood/internal/commands/seedcmd"
	"github.com/spf13/cobra"
)

func (a *app) seedCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Import products and projects from Markdown files",
		Long: "Reads Markdown files with YAML frontmatter (kind: product or project) and\n" +
			"creates the entries that do not exist yet. Defaults to seed.dir from the config.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModule(cmd, func(ctx context.Context, m *deepwood.Module) error {
				dir := m.Container().Config.Seed.Dir
				if len(args) == 1 {
					dir = args[0]
				}
				report, err := m.Commands().ImportCatalog.Import(ctx, seedcmd.ImportCatalogCommand{
					Directory:   dir,
					FailOnError: strict,
				})
				if report == nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created %d, skipped %d, failed %d\n", len(report.Created), len(report.Skipped), len(report.Errors))
				paths := make([]string, 0, len(report.Errors))
				for path := range report.Errors {
					paths = append(paths, path)
				}
				sort.Strings(paths)
				for _, path := range paths {
					fmt.Fprintf(out, "  %s: %v\n", path, report.Errors[path])
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any document cannot be imported")
	return cmd
}
