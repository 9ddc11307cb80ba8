package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	ctxbuilder "github.com/codegraph/codegraph/internal/context"
	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/rpc"
	"github.com/codegraph/codegraph/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the query engine and context builder over a line-delimited JSON-RPC stdio transport",
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

			log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			srv := rpc.New(log)
			eng := query.New(st)
			builder := ctxbuilder.New(st, root)
			rpc.RegisterCodegraphMethods(srv, st, eng, builder)

			return srv.Serve(os.Stdin, os.Stdout)
		},
	}
}
