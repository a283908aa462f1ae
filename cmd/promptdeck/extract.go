// Package main extraction commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/render"
	"github.com/joss/promptdeck/internal/tokens"
	"github.com/joss/promptdeck/internal/unit"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract units from a source",
		Long:  "Extract the unit sequence from a spreadsheet, delimited text file, or HTML page.",
	}

	var asJSON bool
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print units as JSON")

	// promptdeck extract sheet
	var sheet, idCol string
	var descCols []string
	var byColumn bool
	sheetCmd := &cobra.Command{
		Use:   "sheet <workbook>",
		Short: "Extract rows from a spreadsheet sheet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := extract.Config{
				Kind: extract.KindSpreadsheet,
				Spreadsheet: &extract.SpreadsheetConfig{
					Sheet:              sheet,
					IDColumn:           idCol,
					DescriptionColumns: descCols,
				},
			}
			units, err := extract.Units(context.Background(), cfg, args[0], nil)
			exitOnError(err)

			if byColumn && !asJSON {
				w := render.Stdout()
				w.Header("%d units", len(units))
				// Blank columns are dropped at build time, so parts
				// are numbered rather than labeled.
				for _, u := range units {
					w.Item("%s", u.ID)
					for i, part := range unit.SplitParts(u.Body, len(descCols)) {
						w.SubItem("%d: %s", i+1, render.Truncate(part, 60))
					}
				}
				return
			}
			printUnits(units, asJSON)
		},
	}
	sheetCmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet name (required)")
	sheetCmd.Flags().StringVar(&idCol, "id-column", "", "Column used as unit id (required)")
	sheetCmd.Flags().StringSliceVar(&descCols, "desc-columns", nil, "Columns joined into the unit body (required)")
	sheetCmd.Flags().BoolVar(&byColumn, "columns", false, "Show the body split back into its source columns")
	sheetCmd.MarkFlagRequired("sheet")
	sheetCmd.MarkFlagRequired("id-column")
	sheetCmd.MarkFlagRequired("desc-columns")

	// promptdeck extract blocks
	var delimiter, capture, flags string
	blocksCmd := &cobra.Command{
		Use:   "blocks <file>",
		Short: "Slice a text file into delimited blocks",
		Long:  "Split a text file at regex delimiter matches; each slice becomes one unit.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := extract.Config{
				Kind: extract.KindRegex,
				Regex: &extract.RegexConfig{
					Delimiter: delimiter,
					IDCapture: capture,
					Flags:     flags,
				},
			}
			runExtract(cfg, args[0], asJSON)
		},
	}
	blocksCmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Delimiter regex (required)")
	blocksCmd.Flags().StringVar(&capture, "id-capture", "", "Regex with a capture group for the unit id")
	blocksCmd.Flags().StringVar(&flags, "flags", "ims", "Regex flags (any of i, m, s)")
	blocksCmd.MarkFlagRequired("delimiter")

	// promptdeck extract html
	var itemSel, idSel, idAttr, descSel string
	htmlCmd := &cobra.Command{
		Use:   "html <file>",
		Short: "Extract items from an HTML page via CSS selectors",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := extract.Config{
				Kind: extract.KindHTML,
				HTML: &extract.HTMLConfig{
					ItemSelector: itemSel,
					IDSelector:   idSel,
					IDAttr:       idAttr,
					DescSelector: descSel,
				},
			}
			runExtract(cfg, args[0], asJSON)
		},
	}
	htmlCmd.Flags().StringVar(&itemSel, "item-selector", "", "Selector matching one element per unit (required)")
	htmlCmd.Flags().StringVar(&idSel, "id-selector", "", "Selector for the id element inside each item")
	htmlCmd.Flags().StringVar(&idAttr, "id-attr", "", "Attribute read for the id (default the element text)")
	htmlCmd.Flags().StringVar(&descSel, "desc-selector", "", "Selector for the body text inside each item")
	htmlCmd.MarkFlagRequired("item-selector")

	cmd.AddCommand(sheetCmd, blocksCmd, htmlCmd)
	return cmd
}

func runExtract(cfg extract.Config, source string, asJSON bool) {
	units, err := extract.Units(context.Background(), cfg, source, nil)
	exitOnError(err)
	printUnits(units, asJSON)
}

func printUnits(units []unit.Unit, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnError(enc.Encode(units))
		return
	}

	w := render.Stdout()
	if len(units) == 0 {
		w.Empty("no units extracted")
		return
	}
	w.Header("%d units", len(units))
	for _, u := range units {
		preview := strings.ReplaceAll(u.Body, "\n", " ")
		w.Item("%s  %s  %s",
			u.ID,
			render.Truncate(preview, 60),
			fmt.Sprintf("(%d tokens)", tokens.Count(u.Body)))
	}
}
