package main

import "github.com/spf13/cobra"

type initCmd struct {
	*cobra.Command
}

func newInitCmd(root *rootCmd) *initCmd {
	r := &initCmd{
		Command: &cobra.Command{
			Use:   "init",
			Short: "idempotently prepare the local clones and the checkpoint database",
			Args:  cobra.NoArgs,
		},
	}

	r.RunE = func(cmd *cobra.Command, _ []string) error {
		m, err := root.loadMirror(cmd, false)
		if err != nil {
			return err
		}

		return m.Close()
	}

	return r
}
