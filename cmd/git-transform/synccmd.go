package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type syncCmd struct {
	*cobra.Command
}

func newSyncCmd(root *rootCmd) *syncCmd {
	r := &syncCmd{
		Command: &cobra.Command{
			Use:   "sync",
			Short: "refresh all source refs from the remote, force-overwriting local refs and tags",
			Args:  cobra.NoArgs,
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

		return m.Sync(ctx)
	}

	return r
}
