package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type pushCmd struct {
	*cobra.Command
}

func newPushCmd(root *rootCmd) *pushCmd {
	r := &pushCmd{
		Command: &cobra.Command{
			Use:   "push",
			Short: "force-push all destination heads and tags to the remote",
			Args:  cobra.NoArgs,
		},
	}

	r.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		m, err := root.loadMirror(cmd, true)
		if err != nil {
			return err
		}
		defer m.Close()

		return m.Push(ctx)
	}

	return r
}
