package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/indexer"
	"github.com/codegraph/codegraph/internal/store"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Perform a full index of the project",
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

			res, err := indexer.IndexAll(cmd.Context(), st, root, cfg, progressPrinter(cmd))
			if err != nil {
				return err
			}
			printIndexResult(cmd, res)
			return nil
		},
	}
}

func progressPrinter(cmd *cobra.Command) indexer.ProgressFunc {
	return func(phase indexer.Phase, current, total int, currentFile string) {
		if total == 0 {
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d %s\n", phase, current, total, currentFile)
	}
}

func printIndexResult(cmd *cobra.Command, res *indexer.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "processed=%d skipped=%d nodes=%d edges=%d refs=%d successful=%t duration=%s\n",
		res.FilesProcessed, res.FilesSkipped, res.NodesWritten, res.EdgesWritten, res.RefsWritten,
		res.Successful, res.Duration)
	for _, e := range res.Errors {
		fmt.Fprintf(out, "error: %v\n", e)
	}
}
