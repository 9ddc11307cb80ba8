package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/store"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a direct edge query by id or name",
	}
	cmd.AddCommand(
		newDirectEdgeCmd("callers", "List the direct callers of a node", func(e *query.Engine, id string) ([]*graphmodel.Node, error) {
			return e.GetCallers(id)
		}),
		newDirectEdgeCmd("callees", "List the direct callees of a node", func(e *query.Engine, id string) ([]*graphmodel.Node, error) {
			return e.GetCallees(id)
		}),
		newDirectEdgeCmd("dependencies", "List the direct dependencies of a node", func(e *query.Engine, id string) ([]*graphmodel.Node, error) {
			return e.GetDependencies(id)
		}),
		newDirectEdgeCmd("dependents", "List the direct dependents of a node", func(e *query.Engine, id string) ([]*graphmodel.Node, error) {
			return e.GetDependents(id)
		}),
		newSearchCmd(),
	)
	return cmd
}

func newDirectEdgeCmd(use, short string, fn func(*query.Engine, string) ([]*graphmodel.Node, error)) *cobra.Command {
	var id, name string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cmd.Flags().GetString("root")
			if err != nil {
				return err
			}

			st, err := store.Open(root)
			if err != nil {
				return err
			}
			defer st.Close()

			eng := query.New(st)
			resolved, err := resolveNodeID(st, eng, id, name)
			if err != nil {
				return err
			}

			nodes, err := fn(eng, resolved)
			if err != nil {
				return err
			}
			printNodes(cmd, nodes)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "node id")
	cmd.Flags().StringVar(&name, "name", "", "node name or qualified name")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var text string
	var limit int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank nodes by lexical relevance to free text",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cmd.Flags().GetString("root")
			if err != nil {
				return err
			}

			st, err := store.Open(root)
			if err != nil {
				return err
			}
			defer st.Close()

			eng := query.New(st)
			results, err := eng.SearchNodes(text, query.SearchOptions{Limit: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%-6d %-10s %-30s %s\n", r.Score, r.Node.Kind, r.Node.QualifiedName, r.Node.FilePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "search text")
	cmd.Flags().IntVar(&limit, "limit", query.DefaultMaxNodes, "maximum results")
	return cmd
}

func printNodes(cmd *cobra.Command, nodes []*graphmodel.Node) {
	out := cmd.OutOrStdout()
	for _, n := range nodes {
		fmt.Fprintf(out, "%-10s %-30s %s:%d\n", n.Kind, n.QualifiedName, n.FilePath, n.StartLine)
	}
}
