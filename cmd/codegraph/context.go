package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ctxbuilder "github.com/codegraph/codegraph/internal/context"
	"github.com/codegraph/codegraph/internal/store"
)

func newContextCmd() *cobra.Command {
	var task string
	var searchLimit, traversalDepth, maxNodes, maxCodeBlocks, maxCodeBlockSize int
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Build a context document from a task description",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cmd.Flags().GetString("root")
			if err != nil {
				return err
			}
			if task == "" {
				return fmt.Errorf("--task is required")
			}

			st, err := store.Open(root)
			if err != nil {
				return err
			}
			defer st.Close()

			builder := ctxbuilder.New(st, root)
			doc, err := builder.BuildContext(cmd.Context(), task, ctxbuilder.Options{
				SearchLimit:      searchLimit,
				TraversalDepth:   traversalDepth,
				MaxNodes:         maxNodes,
				MaxCodeBlocks:    maxCodeBlocks,
				MaxCodeBlockSize: maxCodeBlockSize,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), doc.RenderCompact())
			return nil
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "natural-language task description")
	cmd.Flags().IntVar(&searchLimit, "search-limit", ctxbuilder.DefaultSearchLimit, "number of entry points to seed from")
	cmd.Flags().IntVar(&traversalDepth, "traversal-depth", ctxbuilder.DefaultTraversalDepth, "hops to expand from entry points")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", ctxbuilder.DefaultMaxNodes, "maximum nodes in the expanded subgraph")
	cmd.Flags().IntVar(&maxCodeBlocks, "max-code-blocks", ctxbuilder.DefaultMaxCodeBlocks, "maximum code blocks to include")
	cmd.Flags().IntVar(&maxCodeBlockSize, "max-code-block-size", ctxbuilder.DefaultMaxCodeBlockSize, "maximum characters per code block")
	return cmd
}
