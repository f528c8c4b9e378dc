package gittransform

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ScratchFunc acquires a fresh scratch filesystem for one commit and
// returns it together with its release function. The release function is
// called exactly once, on every exit path of staging.
type ScratchFunc func() (billy.Filesystem, func() error, error)

// TempDirScratch is the default [ScratchFunc]: a new temporary directory
// on disk, removed on release. A disk backed scratch area lets hooks run
// external commands inside it.
func TempDirScratch() (billy.Filesystem, func() error, error) {
	dir, err := os.MkdirTemp("", "git-transform-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return osfs.New(dir), func() error { return os.RemoveAll(dir) }, nil
}

// MemoryScratch is a [ScratchFunc] backed by an in-memory filesystem,
// for tests and hooks that do not shell out.
func MemoryScratch() (billy.Filesystem, func() error, error) {
	return memfs.New(), func() error { return nil }, nil
}

// StagedTree is the working content of one source commit, filtered,
// overlaid and transformed, ready to be committed. Close releases the
// scratch area and must be called exactly once.
type StagedTree struct {
	FS    billy.Filesystem
	close func() error
}

func (t *StagedTree) Close() error {
	return t.close()
}

// Stager materializes source commits into scratch worktrees.
//
// For every commit it acquires a scratch area, checks out the files
// selected by PathSpec, copies the Overlay on top, and runs the Hook if
// one is configured. The scratch area is released on every path except a
// successful staging, where the caller releases it through
// [StagedTree.Close].
type Stager struct {
	// PathSpec restricts the materialized paths. Nil means unrestricted.
	PathSpec *PathSpec

	// Overlay is copied over the checkout, overwriting on conflicts.
	Overlay OverlayTree

	// Hook is the optional transform step.
	Hook TransformHook

	// Scratch acquires the working area. Nil means [TempDirScratch].
	Scratch ScratchFunc
}

// Stage runs the staging pipeline for one source commit.
//
// The two skip outcomes are reported as [ErrMissingPathspec] (the pathspec
// selected nothing in this commit) and [ErrHookRejected] (the hook
// reported failure); both release the scratch area before returning. Any
// other error is an infrastructure failure.
func (st *Stager) Stage(ctx context.Context, c *object.Commit) (*StagedTree, error) {
	if c == nil {
		return nil, ErrNilCommit
	}

	scratch := st.Scratch
	if scratch == nil {
		scratch = TempDirScratch
	}

	worktree, release, err := scratch()
	if err != nil {
		return nil, err
	}

	staged, err := st.stage(ctx, c, worktree)
	if err != nil {
		if rerr := release(); rerr != nil {
			logger.Warn("failed to release scratch area", "error", rerr)
		}
		return nil, err
	}

	staged.close = release

	return staged, nil
}

func (st *Stager) stage(ctx context.Context, c *object.Commit, worktree billy.Filesystem) (*StagedTree, error) {
	// The scratch area is created fresh per commit, so the checkout result
	// cannot contain leftovers from a prior iteration.
	n, err := checkoutFiltered(ctx, c, worktree, st.PathSpec)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("commit %s: %w", c.Hash, ErrMissingPathspec)
	}

	if err := st.Overlay.Apply(worktree); err != nil {
		return nil, errorf(err, "failed to apply overlay for commit %s: %w", c.Hash, err)
	}

	if st.Hook != nil {
		if err := st.Hook(ctx, worktree); err != nil {
			return nil, fmt.Errorf("commit %s: %w: %s", c.Hash, ErrHookRejected, err.Error())
		}
	}

	return &StagedTree{FS: worktree}, nil
}

// checkoutFiltered writes the files of the commit selected by spec into
// worktree and returns how many were written. Submodules are silently
// ignored.
func checkoutFiltered(ctx context.Context, c *object.Commit, worktree billy.Filesystem, spec *PathSpec) (int, error) {
	files, err := c.Files()
	if err != nil {
		return 0, fmt.Errorf("failed to obtain files for commit %s: %w", c.Hash, err)
	}
	defer files.Close()

	n := 0

	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		f, err := files.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("failed to iterate files of commit %s: %w", c.Hash, err)
		}

		if f.Mode == filemode.Submodule || !spec.Match(f.Name) {
			continue
		}

		if err := checkoutFile(f, worktree); err != nil {
			return n, errorf(err, "failed to check out %s from commit %s: %w", f.Name, c.Hash, err)
		}

		n++
	}

	return n, nil
}

func checkoutFile(f *object.File, worktree billy.Filesystem) error {
	switch f.Mode {
	case filemode.Symlink:
		target, err := f.Contents()
		if err != nil {
			return err
		}
		return worktree.Symlink(target, f.Name)

	default:
		contents, err := f.Contents()
		if err != nil {
			return err
		}

		perm := os.FileMode(0o644)
		if f.Mode == filemode.Executable {
			perm = 0o755
		}

		return util.WriteFile(worktree, f.Name, []byte(contents), perm)
	}
}
