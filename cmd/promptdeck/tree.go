// Package main tree command.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/scan"
	"github.com/joss/promptdeck/internal/tree"
)

func treeCmd() *cobra.Command {
	var depth int
	var limit int
	var showRoot bool

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the ASCII file tree of a directory",
		Long:  "Scan a directory (honoring .gitignore, skipping dotfiles) and print its collapsed ASCII tree.",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			root, _ := os.Getwd()
			if len(args) > 0 {
				abs, err := filepath.Abs(args[0])
				exitOnError(err)
				root = abs
			}

			node, err := scan.Directory(root)
			exitOnError(err)

			fmt.Print(tree.RenderASCII(node, tree.RenderOptions{
				DepthLimit:   depth,
				EntryLimit:   limit,
				ShowRootPath: showRoot,
			}))
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "Collapse directories deeper than this")
	cmd.Flags().IntVarP(&limit, "max-entries", "n", 200, "Max entries shown per directory")
	cmd.Flags().BoolVar(&showRoot, "show-root", false, "Show the absolute root path in the header line")
	return cmd
}
