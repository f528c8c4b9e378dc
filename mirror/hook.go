package mirror

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/go-git/go-billy/v5"

	gittransform "github.com/msg555/git-transform"
)

// ExecHook adapts a shell command into a [gittransform.TransformHook]. The
// command runs with the staged worktree directory as its working
// directory; a non-zero exit quarantines the commit. It requires a disk
// backed scratch area.
func ExecHook(command string) gittransform.TransformHook {
	return func(ctx context.Context, worktree billy.Filesystem) error {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = worktree.Root()

		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("hook %q failed: %w: %s", command, err, bytes.TrimSpace(output))
		}

		return nil
	}
}
