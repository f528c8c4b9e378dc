package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type mirrorCmd struct {
	*cobra.Command
}

func newMirrorCmd(root *rootCmd) *mirrorCmd {
	r := &mirrorCmd{
		Command: &cobra.Command{
			Use:   "mirror",
			Short: "sync, transform and push in sequence",
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

		return m.Run(ctx)
	}

	return r
}
