package gittransform

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Committer is the fixed identity stamped on every produced commit, as
// both author and committer. Only the message and the author/committer
// timestamps are propagated from the source commit; keeping the source
// timestamps makes reruns reproduce identical commit hashes.
var Committer = object.Signature{
	Name:  "git-transform",
	Email: "git-transform@localhost",
}

// WriteCommit turns a staged tree into a destination commit.
//
// The new commit has the staged content as its tree, baseline as its sole
// parent ([EmptyBaseline] means no parent), and the source commit message
// byte for byte. GPG signatures are never carried over. The checkpoint
// for the source commit is recorded before returning, and the new commit
// hash is the baseline for the next chain element.
func WriteCommit(
	ctx context.Context,
	staged *StagedTree,
	src *object.Commit,
	baseline plumbing.Hash,
	s storer.EncodedObjectStorer,
	store CheckpointStore,
) (plumbing.Hash, error) {
	select {
	case <-ctx.Done():
		return plumbing.ZeroHash, ctx.Err()
	default:
	}

	if staged == nil || src == nil {
		return plumbing.ZeroHash, ErrNilCommit
	}
	if store == nil {
		return plumbing.ZeroHash, ErrNilCheckpointStore
	}

	tree, err := BuildTree(staged.FS, s)
	if err != nil {
		return plumbing.ZeroHash, errorf(err, "failed to build tree for commit %s: %w", src.Hash, err)
	}

	author := Committer
	author.When = src.Author.When
	committer := Committer
	committer.When = src.Committer.When

	var parents []plumbing.Hash
	if baseline != EmptyBaseline {
		parents = []plumbing.Hash{baseline}
	}

	newcommit := &object.Commit{
		TreeHash:     tree,
		Author:       author,
		Committer:    committer,
		Message:      src.Message,
		ParentHashes: parents,
	}

	obj := s.NewEncodedObject()
	if err := newcommit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode commit for %s: %w", src.Hash, err)
	}

	newhash, err := saveObject(s, obj)
	if err != nil {
		return plumbing.ZeroHash, errorf(err, "failed to save commit for %s: %w", src.Hash, err)
	}

	if err := store.Put(src.Hash, newhash); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to record checkpoint %s -> %s: %w", src.Hash, newhash, err)
	}

	return newhash, nil
}
