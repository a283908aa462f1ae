// Package main interactive stepper command.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/app"
	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/tui"
)

func tuiCmd() *cobra.Command {
	var sessionPath, root string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive unit stepper",
		Long: `Open the interactive stepper: walk the unit sequence, edit the
prompt, watch the live token count, and copy the assembled document.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			s := openStore()
			defer s.Close()

			a, err := app.New(ctx, app.Options{
				Store:    s,
				Fetcher:  extract.NewFetcher(),
				Settings: loadSettings(),
			})
			exitOnError(err)
			defer a.Close(ctx)

			if root == "" {
				root, _ = os.Getwd()
			}
			if sessionPath != "" {
				exitOnError(a.LoadSessionFile(sessionPath, root))
				state := a.State()
				if state.UnitSource != "" && state.Extraction != nil {
					a.StartExtraction(ctx, *state.Extraction, state.UnitSource)
				}
			} else {
				a.SetRoot(root)
			}

			exitOnError(tui.Run(a))
		},
	}
	cmd.Flags().StringVarP(&sessionPath, "session", "s", "", "Session file to load")
	cmd.Flags().StringVarP(&root, "root", "r", "", "Root directory for path resolution")
	return cmd
}
