package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/store"
	"github.com/codegraph/codegraph/internal/sync"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Incrementally reconcile the graph against the current project state",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cmd.Flags().GetString("root")
			if err != nil {
				return err
			}

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			st, err := store.Open(root)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := sync.Sync(cmd.Context(), st, root, cfg, progressPrinter(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "files_added=%d files_modified=%d files_removed=%d duration=%s\n",
				res.FilesAdded, res.FilesModified, res.FilesRemoved, res.Duration)
			for _, p := range res.ChangedPaths {
				fmt.Fprintf(out, "changed: %s\n", p)
			}
			return nil
		},
	}
}
