// Package main session file and snapshot commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/promptdeck/internal/render"
	"github.com/joss/promptdeck/internal/session"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session file validation and snapshot history",
	}

	// promptdeck session validate
	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a session file",
		Long:  "Check a session file against the portable format. Any mismatch rejects the whole file.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := os.ReadFile(args[0])
			exitOnError(err)

			f, err := session.Validate(raw)
			if err != nil {
				render.Stderr().Fail("%s: %v", args[0], err)
				os.Exit(1)
			}
			render.Stdout().Success("%s: valid (version %d, mode %s, %d files)",
				args[0], f.Version, f.Mode, len(f.SelectedFiles))
		},
	}

	// promptdeck session snapshot
	var name string
	snapshotCmd := &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Store a session file in the snapshot history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := os.ReadFile(args[0])
			exitOnError(err)
			_, err = session.Validate(raw)
			exitOnError(err)

			s := openStore()
			defer s.Close()

			if name == "" {
				name = args[0]
			}
			id, err := s.SaveSnapshot(context.Background(), name, raw)
			exitOnError(err)
			render.Stdout().Success("snapshot %s", id)
		},
	}
	snapshotCmd.Flags().StringVarP(&name, "name", "n", "", "Snapshot name (default the file path)")

	// promptdeck session list
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Run: func(cmd *cobra.Command, args []string) {
			s := openStore()
			defer s.Close()

			snaps, err := s.ListSnapshots(context.Background(), limit)
			exitOnError(err)

			w := render.Stdout()
			if len(snaps) == 0 {
				w.Empty("no snapshots")
				return
			}
			w.Header("%d snapshots", len(snaps))
			for _, snap := range snaps {
				w.Item("%s  %s  %s", snap.ID, snap.CreatedAt.Format("2006-01-02 15:04"), snap.Name)
			}
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Max snapshots to show")

	// promptdeck session show
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a snapshot payload",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := openStore()
			defer s.Close()

			snap, err := s.GetSnapshot(context.Background(), args[0])
			exitOnError(err)
			fmt.Print(string(snap.Payload))
		},
	}

	// promptdeck session delete
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := openStore()
			defer s.Close()

			exitOnError(s.DeleteSnapshot(context.Background(), args[0]))
			render.Stdout().Success("deleted %s", args[0])
		},
	}

	cmd.AddCommand(validateCmd, snapshotCmd, listCmd, showCmd, deleteCmd)
	return cmd
}

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage the persisted system instructions",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the system instructions",
		Run: func(cmd *cobra.Command, args []string) {
			s := openStore()
			defer s.Close()

			v, err := s.SystemPrompt(context.Background())
			exitOnError(err)
			fmt.Println(v)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <text>",
		Short: "Replace the system instructions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := openStore()
			defer s.Close()

			exitOnError(s.SaveSystemPrompt(context.Background(), args[0]))
			render.Stdout().Success("system instructions saved")
		},
	}

	cmd.AddCommand(getCmd, setCmd)
	return cmd
}
