package gittransform

import (
	"context"

	"github.com/go-git/go-billy/v5"
)

// TransformHook is a user supplied mutation step. It receives the staged
// worktree after checkout and overlay, may read and write it freely, and
// returns nil on success. Any returned error quarantines the commit as
// [ErrHookRejected].
//
// The hook is invoked at most once per non-skipped commit.
type TransformHook func(ctx context.Context, worktree billy.Filesystem) error
