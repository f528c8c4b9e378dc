package gittransform

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Replayer runs the chain pipeline: for every source ref it resolves the
// pending chain, stages and commits each pending commit (or quarantines
// it), and finally points the matching destination ref at the produced
// head.
//
// All refs of one Replayer share the same [CheckpointStore], so refs with
// common ancestry reuse each other's work. Refs are processed strictly
// sequentially.
type Replayer struct {
	Source storer.Storer
	Dest   storer.Storer
	Store  CheckpointStore
	Stager *Stager

	// MaxDepth bounds the ancestry walk per ref; 0 means unlimited.
	MaxDepth int
}

// RefResult summarizes the replay of one ref.
type RefResult struct {
	Name plumbing.ReferenceName

	// Tip is the source commit the ref points at, after tag peeling.
	Tip plumbing.Hash

	// Head is the final baseline, [EmptyBaseline] when every commit of the
	// lineage is quarantined.
	Head plumbing.Hash

	Produced int
	Skipped  int

	// Updated reports whether the destination ref was written.
	Updated bool
}

// ReplayAll replays every head and tag of the source. A ref whose target
// cannot be peeled to a commit is skipped with a warning; any other
// failure aborts the run, leaving the checkpoint store safe to resume
// from.
func (r *Replayer) ReplayAll(ctx context.Context) ([]*RefResult, error) {
	refs, err := SourceRefs(r.Source)
	if err != nil {
		return nil, err
	}

	results := make([]*RefResult, 0, len(refs))

	for _, ref := range refs {
		res, err := r.ReplayRef(ctx, ref)
		if errors.Is(err, ErrNotACommit) {
			logger.Warn("skipping ref", "ref", ref.Name().String(), "error", err)
			continue
		}
		if err != nil {
			return nil, errorf(err, "failed to replay ref %s: %w", ref.Name(), err)
		}

		results = append(results, res)
	}

	return results, nil
}

// ReplayRef replays a single ref and updates its destination counterpart.
func (r *Replayer) ReplayRef(ctx context.Context, ref *plumbing.Reference) (*RefResult, error) {
	tip, err := PeelToCommit(r.Source, ref.Hash())
	if err != nil {
		return nil, err
	}

	result := &RefResult{Name: ref.Name(), Tip: tip.Hash}

	chain, err := ResolveChain(ctx, r.Store, tip, r.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chain for %s: %w", ref.Name(), err)
	}

	baseline := chain.Baseline
	n := len(chain.Pending)

	for i, c := range chain.Pending {
		staged, err := r.Stager.Stage(ctx, c)

		switch {
		case IsSkip(err):
			logger.Info("quarantine commit",
				"ref", ref.Name().String(), "hash", c.Hash, "id", i, "total", n, "reason", err.Error())
			if err := r.Store.Put(c.Hash, baseline); err != nil {
				return nil, fmt.Errorf("failed to record quarantine checkpoint for %s: %w", c.Hash, err)
			}
			result.Skipped++
			continue

		case err != nil:
			return nil, errorf(err, "failed to stage commit %s: %w", c.Hash, err)
		}

		newhash, werr := WriteCommit(ctx, staged, c, baseline, r.Dest, r.Store)
		if cerr := staged.Close(); cerr != nil {
			logger.Warn("failed to release staged tree", "hash", c.Hash, "error", cerr)
		}
		if werr != nil {
			return nil, werr
		}

		logger.Info("materialized commit",
			"ref", ref.Name().String(), "hash", c.Hash, "id", i, "total", n, "newcommit", newhash)

		baseline = newhash
		result.Produced++
	}

	result.Head = baseline

	updated, err := UpdateRef(r.Dest, ref.Name(), baseline)
	if err != nil {
		return nil, err
	}
	result.Updated = updated

	return result, nil
}

// UpdateRef points the destination ref at head. When head is
// [EmptyBaseline] nothing was ever produced for the lineage and the ref is
// left untouched; the returned bool reports whether the ref was written.
func UpdateRef(s storer.ReferenceStorer, name plumbing.ReferenceName, head plumbing.Hash) (bool, error) {
	if head == EmptyBaseline {
		return false, nil
	}

	if err := s.SetReference(plumbing.NewHashReference(name, head)); err != nil {
		return false, fmt.Errorf("failed to update ref %s: %w", name, err)
	}

	return true, nil
}
