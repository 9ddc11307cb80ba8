package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/store"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the project's .codegraph layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cmd.Flags().GetString("root")
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.Save(root, cfg); err != nil {
				return err
			}

			st, err := store.Open(root)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "initialized codegraph project at %s\n", root)
			return nil
		},
	}
}
