// Package main build command.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/app"
	"github.com/joss/promptdeck/internal/export"
	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/render"
	"github.com/joss/promptdeck/internal/session"
	"github.com/joss/promptdeck/internal/tokens"
)

func buildCmd() *cobra.Command {
	var sessionPath, root, prompt, system, outPath string
	var files []string
	var includeTree, copyOut, showTokens bool
	var saveDir, saveName string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble the prompt document",
		Long: `Assemble the Markdown document either from a saved session file
(--session) or ad hoc from --root, --files, and --prompt. The document goes
to stdout unless --copy or --save redirects it.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			a, err := app.New(ctx, app.Options{Settings: loadSettings()})
			exitOnError(err)
			defer a.Close(ctx)

			if sessionPath != "" {
				if root == "" {
					root, _ = os.Getwd()
				}
				exitOnError(a.LoadSessionFile(sessionPath, root))
				state := a.State()
				if state.UnitSource != "" && state.Extraction != nil {
					units, err := extract.Units(ctx, *state.Extraction, state.UnitSource, nil)
					exitOnError(err)
					a.RestoreUnits(units)
				}
			} else {
				abs := make([]string, len(files))
				for i, f := range files {
					p, err := filepath.Abs(f)
					exitOnError(err)
					abs[i] = p
				}
				if root != "" {
					r, err := filepath.Abs(root)
					exitOnError(err)
					root = r
				}
				a.ReplaceState(session.State{
					Root:          root,
					Mode:          session.ModeFolder,
					Instructions:  prompt,
					SystemPrompt:  system,
					SelectedFiles: abs,
					IncludeTree:   includeTree,
				})
			}

			doc, err := a.Document()
			exitOnError(err)

			switch {
			case copyOut:
				n, err := a.CopyDocument()
				exitOnError(err)
				render.Stderr().Success("copied %d tokens", n)
			case saveDir != "":
				path, err := export.SaveChunk(saveDir, saveName, "md", doc)
				exitOnError(err)
				render.Stderr().Success("saved %s (%d tokens)", path, tokens.Count(doc))
			case outPath != "":
				exitOnError(os.WriteFile(outPath, []byte(doc), 0644))
				render.Stderr().Success("wrote %s (%d tokens)", outPath, tokens.Count(doc))
			default:
				fmt.Print(doc)
			}

			if showTokens && !copyOut && saveDir == "" && outPath == "" {
				render.Stderr().Dim("%d tokens", tokens.Count(doc))
			}
		},
	}
	cmd.Flags().StringVarP(&sessionPath, "session", "s", "", "Session file to assemble from")
	cmd.Flags().StringVarP(&root, "root", "r", "", "Root directory (session resolution or tree scan)")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Prompt instructions")
	cmd.Flags().StringVar(&system, "system", "", "System instructions")
	cmd.Flags().StringSliceVarP(&files, "files", "f", nil, "Files to inline")
	cmd.Flags().BoolVarP(&includeTree, "tree", "t", false, "Append the file tree section")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "Copy the document to the clipboard")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the document to this file")
	cmd.Flags().StringVar(&saveDir, "save", "", "Save the document as a chunk file in this directory")
	cmd.Flags().StringVar(&saveName, "name", "chunk", "Base name for the saved chunk file")
	cmd.Flags().BoolVar(&showTokens, "tokens", false, "Print the token count to stderr")
	return cmd
}
