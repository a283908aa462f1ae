// Package main fetch command.
package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/render"
)

func fetchCmd() *cobra.Command {
	var endpoint, idCol string
	var descCols []string
	var rendered bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch <source>",
		Short: "Extract units through a remote extraction API",
		Long: `Read a local file or download a URL, post its text to the extraction
endpoint, and build units from the returned table. With no --id-column the
raw table is printed instead.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if endpoint == "" {
				endpoint = loadSettings().Endpoint
			}
			if endpoint == "" {
				exitOnError(fault.NewConfigError(string(extract.KindAPI), "endpoint"))
			}

			fetcher := extract.NewFetcher()
			if rendered {
				browser := extract.NewBrowser()
				defer browser.Close()
				fetcher = fetcher.WithBrowser(browser)
			}

			table, err := fetcher.FetchTable(context.Background(), endpoint, args[0])
			exitOnError(err)

			if idCol == "" {
				printTable(table, asJSON)
				return
			}

			units, err := table.Build(idCol, descCols)
			exitOnError(err)
			printUnits(units, asJSON)
		},
	}
	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "Extraction API endpoint (default from config)")
	cmd.Flags().StringVar(&idCol, "id-column", "", "Column used as unit id")
	cmd.Flags().StringSliceVar(&descCols, "desc-columns", nil, "Columns joined into the unit body")
	cmd.Flags().BoolVar(&rendered, "rendered", false, "Allow headless-browser fallback for JS-only pages")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printTable(t extract.Table, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnError(enc.Encode(t))
		return
	}

	w := render.Stdout()
	w.Header("%d rows", len(t.Rows))
	w.Item("columns: %s", strings.Join(t.Columns, ", "))
	for i, row := range t.Rows {
		if i >= 20 {
			w.Dim("  … %d more rows", len(t.Rows)-i)
			break
		}
		var parts []string
		for _, c := range t.Columns {
			parts = append(parts, row[c])
		}
		w.Item("%s", render.Truncate(strings.Join(parts, " | "), 100))
	}
}
