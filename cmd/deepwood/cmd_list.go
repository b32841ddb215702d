package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-deepwood"
	"github.com/goliatone/go-deepwood/internal/catalog"
	"github.com/goliatone/go-deepwood/internal/domain"
	"github.com/goliatone/go-deepwood/internal/portfolio"
	"github.com/goliatone/go-deepwood/internal/slugs"
	"github.com/spf13/cobra"
)

func (a *app) productsCmd() *cobra.Command {
	var category, status, lang string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := slugs.ParseLanguage(lang)
			if err != nil {
				return err
			}
			return a.withModule(cmd, func(ctx context.Context, m *deepwood.Module) error {
				items, total, err := m.Catalog().List(ctx, catalog.ListOptions{
					Category: category,
					Status:   domain.Status(status),
					Limit:    limit,
					Offset:   offset,
				})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SLUG\tNAME\tPRICE\tSTATUS")
				for _, p := range items {
					fmt.Fprintf(w, "%s\t%s\t%d %s\t%s\n", p.Slug, p.Name.Fallback(language), p.Price, p.Currency, p.Status)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d products\n", len(items), total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (draft, published, archived)")
	cmd.Flags().StringVar(&lang, "lang", "en", "language used for names")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	return cmd
}

func (a *app) projectsCmd() *cobra.Command {
	var status, lang string
	var year, limit, offset int
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List portfolio projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			language, err := slugs.ParseLanguage(lang)
			if err != nil {
				return err
			}
			return a.withModule(cmd, func(ctx context.Context, m *deepwood.Module) error {
				items, total, err := m.Portfolio().List(ctx, portfolio.ListOptions{
					Status: domain.Status(status),
					Year:   year,
					Limit:  limit,
					Offset: offset,
				})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SLUG\tTITLE\tYEAR\tSTATUS")
				for _, p := range items {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.Slug, p.Title.Fallback(language), p.Year, p.Status)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d projects\n", len(items), total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&lang, "lang", "en", "language used for titles")
	cmd.Flags().IntVar(&year, "year", 0, "filter by year")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	return cmd
}

func (a *app) settingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective store settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModule(cmd, func(ctx context.Context, m *deepwood.Module) error {
				current, err := m.Settings().Get(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(current)
			})
		},
	}
}
