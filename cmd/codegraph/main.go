package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "codegraph",
		Short:   "A local-first code knowledge graph",
		Version: version,
	}
	root.PersistentFlags().String("root", ".", "project root directory")

	root.AddCommand(
		newInitCmd(),
		newIndexCmd(),
		newSyncCmd(),
		newQueryCmd(),
		newImpactCmd(),
		newContextCmd(),
		newStatusCmd(),
		newServeCmd(),
	)
	return root
}
