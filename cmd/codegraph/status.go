package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/store"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the indexed graph's shape",
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

			schema, err := st.GetSchema()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "files=%d nodes=%d edges=%d\n", schema.FileCount, schema.NodeCount, schema.EdgeCount)

			kinds := make([]string, 0, len(schema.NodeKinds))
			for k := range schema.NodeKinds {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			for _, k := range kinds {
				fmt.Fprintf(out, "  node %-12s %d\n", k, schema.NodeKinds[k])
			}

			edgeKinds := make([]string, 0, len(schema.EdgeKinds))
			for k := range schema.EdgeKinds {
				edgeKinds = append(edgeKinds, k)
			}
			sort.Strings(edgeKinds)
			for _, k := range edgeKinds {
				fmt.Fprintf(out, "  edge %-12s %d\n", k, schema.EdgeKinds[k])
			}
			return nil
		},
	}
}
