package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-deepwood"
	"github.com/goliatone/go-deepwood/internal/commands/slugcmd"
	"github.com/spf13/cobra"
)

func (a *app) slugCmd() *cobra.Command {
	var lang, collection string
	cmd := &cobra.Command{
		Use:     "slug <text>",
		Short:   "Preview the slug a name would receive",
		Example: "  deepwood slug \"Oak Table\"\n  deepwood slug --lang ar \"طاولة بلوط\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := slugcmd.PreviewSlugCommand{
				Text:       strings.Join(args, " "),
				Language:   lang,
				Collection: slugcmd.ParseCollection(collection),
			}
			return a.withModule(cmd, func(ctx context.Context, m *deepwood.Module) error {
				preview, err := m.Commands().PreviewSlug.Preview(ctx, msg)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "base: %s\n", preview.Base)
				fmt.Fprintf(out, "slug: %s\n", preview.Slug)
				fmt.Fprintf(out, "lang: %s\n", preview.Language)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "slug language (en or ar)")
	cmd.Flags().StringVar(&collection, "collection", string(slugcmd.CollectionProducts), "collection checked for uniqueness")
	return cmd
}

func (a *app) regenerateCmd() *cobra.Command {
	var lang, collection string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "regenerate-slugs",
		Short: "Rebuild empty or invalid slugs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := slugcmd.RegenerateSlugsCommand{
				Collection: slugcmd.ParseCollection(collection),
				Language:   lang,
				DryRun:     dryRun,
			}
			return a.withModule(cmd, func(ctx context.Context, m *deepwood.Module) error {
				report, err := m.Commands().RegenerateSlugs.Regenerate(ctx, msg)
				if report != nil {
					printRegenerateReport(cmd, report, dryRun)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language used to derive new slugs")
	cmd.Flags().StringVar(&collection, "collection", string(slugcmd.CollectionAll), "products, projects or all")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without writing")
	return cmd
}

func printRegenerateReport(cmd *cobra.Command, report *slugcmd.RegenerateReport, dryRun bool) {
	out := cmd.OutOrStdout()
	colls := make([]string, 0, len(report.Changed))
	for coll := range report.Changed {
		colls = append(colls, string(coll))
	}
	sort.Strings(colls)
	changed := 0
	for _, coll := range colls {
		changes := report.Changed[slugcmd.Collection(coll)]
		olds := make([]string, 0, len(changes))
		for old := range changes {
			olds = append(olds, old)
		}
		sort.Strings(olds)
		for _, old := range olds {
			fmt.Fprintf(out, "%s %q -> %s\n", coll, old, changes[old])
			changed++
		}
	}
	verb := "regenerated"
	if dryRun {
		verb = "would regenerate"
	}
	fmt.Fprintf(out, "checked %d, %s %d\n", report.Checked, verb, changed)
}
