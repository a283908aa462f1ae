// Package main provides the promptdeck CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/config"
	"github.com/joss/promptdeck/internal/store"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "promptdeck",
		Short: "Assemble LLM prompt documents from files, spreadsheets, and block sources",
		Long: `promptdeck builds Markdown prompt documents from a scanned folder,
a spreadsheet, delimited text blocks, an HTML page, or a remote extraction API.

Use 'promptdeck tui' for the interactive unit stepper.
Use 'promptdeck build' to assemble a document from a saved session.`,
	}

	rootCmd.AddCommand(
		treeCmd(),
		inspectCmd(),
		extractCmd(),
		buildCmd(),
		fetchCmd(),
		sessionCmd(),
		promptCmd(),
		tuiCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("promptdeck " + version)
		},
	}
}

// exitOnError prints the error to stderr and exits.
func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openStore opens the sqlite store under the app home, creating it on
// first use.
func openStore() *store.Store {
	paths, err := config.GetPaths()
	exitOnError(err)
	s, err := store.Open(paths.Data)
	exitOnError(err)
	return s
}

// loadSettings reads config.yaml with defaults.
func loadSettings() *config.Settings {
	paths, err := config.GetPaths()
	exitOnError(err)
	s, err := config.LoadSettings(paths)
	exitOnError(err)
	return s
}
