// git-transform incrementally mirrors a source git repository into a
// destination repository, applying a path filter, a fixed overlay and an
// optional transform hook to every commit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msg555/git-transform/mirror"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootCmd struct {
	*cobra.Command

	configPath string
}

func newRootCmd() *rootCmd {
	c := &rootCmd{
		Command: &cobra.Command{
			Use:   "git-transform",
			Short: "incrementally mirror a git repo with a per-commit transformation",
			Args:  cobra.NoArgs,
		},
	}

	c.PersistentFlags().StringVarP(&c.configPath, "config", "c", c.configPath, "path to the configuration")
	c.MarkPersistentFlagFilename("config")
	c.MarkPersistentFlagRequired("config")

	c.AddCommand(
		newInitCmd(c).Command,
		newSyncCmd(c).Command,
		newTransformCmd(c).Command,
		newPushCmd(c).Command,
		newMirrorCmd(c).Command,
	)

	return c
}

// loadMirror reads and validates the configuration, then performs the
// implicit init every command starts with. Failures before validation
// passes are configuration errors and show usage; anything after is a
// backend failure and does not.
func (c *rootCmd) loadMirror(cmd *cobra.Command, needDest bool) (*mirror.Mirror, error) {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}

	cfg, err := mirror.ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if needDest && cfg.Destination.Url == "" {
		return nil, mirror.ErrNoDestination
	}

	cmd.SilenceUsage = true

	return mirror.New(cfg)
}
