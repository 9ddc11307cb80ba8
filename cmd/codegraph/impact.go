package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/store"
)

func newImpactCmd() *cobra.Command {
	var id, name string
	var maxDepth, maxNodes int
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Compute the inbound impact radius of a node by id or name",
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

			radius, err := eng.GetImpactRadius(resolved, query.Options{MaxDepth: maxDepth, MaxNodes: maxNodes})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "root: %s (%s)\n", radius.Root.QualifiedName, radius.Root.Kind)
			for _, n := range radius.Nodes {
				fmt.Fprintf(out, "  [%s] hop=%d %-10s %-30s %s\n", n.Risk, n.Hop, n.Node.Kind, n.Node.QualifiedName, n.Node.FilePath)
			}
			for _, risk := range []query.RiskLevel{query.RiskCritical, query.RiskHigh, query.RiskMedium, query.RiskLow} {
				fmt.Fprintf(out, "%s=%d\n", risk, radius.Counts[risk])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "node id")
	cmd.Flags().StringVar(&name, "name", "", "node name or qualified name")
	cmd.Flags().IntVar(&maxDepth, "max-depth", query.DefaultMaxDepth, "maximum hop depth")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", query.DefaultMaxNodes, "maximum nodes returned")
	return cmd
}
