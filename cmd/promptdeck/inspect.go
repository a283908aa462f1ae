// Package main inspect command.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/render"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <workbook>",
		Short: "List sheets and columns of a spreadsheet",
		Long:  "Inspect an xlsx/csv/tsv file and print its sheets with their header columns.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			sheets, err := extract.Inspect(args[0])
			exitOnError(err)

			w := render.Stdout()
			w.Header("Sheets in %s", args[0])
			if len(sheets) == 0 {
				w.Empty("no sheets found")
				return
			}
			for _, s := range sheets {
				w.Item("%s (%d columns)", s.Name, len(s.Columns))
				if len(s.Columns) > 0 {
					w.SubItem("%s", strings.Join(s.Columns, ", "))
				}
			}
		},
	}
}
