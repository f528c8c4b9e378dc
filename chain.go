package gittransform

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Chain is the pending portion of a lineage: the source commits between a
// ref tip and the nearest checkpointed ancestor, oldest first, together
// with the destination baseline the first pending commit builds on.
type Chain struct {
	// Pending holds the unresolved commits, oldest first. The tip of the
	// ref is the last element.
	Pending []*object.Commit

	// Baseline is the destination commit the chain replays on top of, or
	// [EmptyBaseline] when the walk reached a root commit.
	Baseline plumbing.Hash
}

// ResolveChain walks the first-parent ancestry of tip backwards until it
// finds a commit recorded in store, or runs out of parents. Parents beyond
// the first are deliberately ignored: the lineage is flattened to one
// parent per hop, the same history git shows with --first-parent.
//
// maxDepth bounds the number of pending commits; a commit at the depth
// limit is treated as a root. Any value 0 or negative turns the limit off.
//
// For a fixed store state the result is fully deterministic.
func ResolveChain(
	ctx context.Context,
	store CheckpointStore,
	tip *object.Commit,
	maxDepth int,
) (*Chain, error) {
	if store == nil {
		return nil, ErrNilCheckpointStore
	}
	if tip == nil {
		return nil, ErrNilCommit
	}

	// phase one: walk backwards collecting pending work.
	pending := make([]*object.Commit, 0)
	seen := NewHashSet()
	baseline := EmptyBaseline

	current := tip
walkloop:
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if _, in := seen[current.Hash]; in {
			return nil, fmt.Errorf("%w: revisited %s", ErrCommitGraphCycle, current.Hash)
		}
		seen[current.Hash] = empty{}

		dst, found, err := store.Get(current.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to look up checkpoint for %s: %w", current.Hash, err)
		}
		if found {
			baseline = dst
			break walkloop
		}

		pending = append(pending, current)

		switch {
		case current.NumParents() == 0:
			break walkloop
		case maxDepth > 0 && len(pending) >= maxDepth:
			break walkloop
		}

		parent, err := current.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("cannot get first parent of %s: %w", current.Hash, err)
		}
		current = parent
	}

	// phase two: reverse to oldest first for the replay.
	for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
		pending[i], pending[j] = pending[j], pending[i]
	}

	return &Chain{Pending: pending, Baseline: baseline}, nil
}
