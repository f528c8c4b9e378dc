package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type transformCmd struct {
	*cobra.Command
}

func newTransformCmd(root *rootCmd) *transformCmd {
	r := &transformCmd{
		Command: &cobra.Command{
			Use:   "transform",
			Short: "replay unvisited source commits into the destination",
			Long: `transform walks every head and tag of the local source clone, rewrites
commits that have no checkpoint yet, and points the destination refs at
the produced heads. Commits already checkpointed are never re-evaluated,
even if the pathspec, overlay or hook configuration has changed.`,
			Args: cobra.NoArgs,
		},
	}

	r.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		m, err := root.loadMirror(cmd, false)
		if err != nil {
			return err
		}
		defer m.Close()

		return m.Transform(ctx)
	}

	return r
}
