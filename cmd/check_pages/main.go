package main

import (
	"fmt"
	"os"
	"strings"

	"marketing-insights-be/internal/config"
	"marketing-insights-be/pkg/personas"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd validates the pages file and, given a personas CSV, shows how it parses.
func newRootCmd() *cobra.Command {
	var (
		pagesPath    string
		personasPath string
	)

	cmd := &cobra.Command{
		Use:          "check_pages",
		Short:        "Validate the pages configuration",
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Could not load .env file: %v\n", err)
			}
			if !cmd.Flags().Changed("pages") {
				if p := os.Getenv("PAGES_CONFIG_PATH"); p != "" {
					pagesPath = p
				}
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, pagesPath, personasPath)
		},
	}

	cmd.Flags().StringVarP(&pagesPath, "pages", "p", "config/pages.yaml", "path to the pages YAML file")
	cmd.Flags().StringVar(&personasPath, "personas", "", "optional personas CSV export to parse")
	return cmd
}

func run(cmd *cobra.Command, pagesPath, personasPath string) error {
	out := cmd.OutOrStdout()

	pages, err := config.LoadPages(pagesPath)
	if err != nil {
		return fmt.Errorf("invalid pages config %s: %w", pagesPath, err)
	}
	fmt.Fprintf(out, "Loaded %s\n\nDashboards:\n", pagesPath)
	for _, d := range pages.CampaignPerformance.Dashboards {
		fmt.Fprintf(out, "  - %-30s %s\n", strings.ReplaceAll(d.Name, "_", " "), d.URL)
	}

	fmt.Fprintf(out, "\nDefault question: %s\n", pages.Audiences.DefaultQuestion)
	fmt.Fprintf(out, "Skip lines: %d, dropped columns: %s\n", pages.Audiences.SkipLines, strings.Join(pages.Audiences.DropColumns, ", "))

	if personasPath == "" {
		return nil
	}

	f, err := os.Open(personasPath)
	if err != nil {
		return fmt.Errorf("open personas file: %w", err)
	}
	defer f.Close()

	table, err := personas.Parse(f, personas.ParseOptions{
		SkipLines:   pages.Audiences.SkipLines,
		DropColumns: pages.Audiences.DropColumns,
	})
	if err != nil {
		return fmt.Errorf("parse personas file: %w", err)
	}

	records, err := table.RecordsJSON()
	if err != nil {
		return fmt.Errorf("encode personas: %w", err)
	}
	fmt.Fprintf(out, "\nColumns: %s\nRows: %d\n\n%s\n", strings.Join(table.Columns, ", "), len(table.Rows), records)
	return nil
}
