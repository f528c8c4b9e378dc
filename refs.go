package gittransform

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// SourceRefs lists every head and tag reference of s, sorted by name so
// the processing order is deterministic. Symbolic references are skipped.
func SourceRefs(s storer.ReferenceStorer) ([]*plumbing.Reference, error) {
	iter, err := s.IterReferences()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	result := make([]*plumbing.Reference, 0)

	err = iter.ForEach(func(r *plumbing.Reference) error {
		if r.Type() != plumbing.HashReference {
			return nil
		}
		if r.Name().IsBranch() || r.Name().IsTag() {
			result = append(result, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect references: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})

	return result, nil
}

// PeelToCommit resolves a reference target to a commit, following
// annotated tags. A target that is not a commit (a tag of a tree or blob)
// yields [ErrNotACommit].
func PeelToCommit(s storer.EncodedObjectStorer, h plumbing.Hash) (*object.Commit, error) {
	obj, err := object.GetObject(s, h)
	if err != nil {
		return nil, fmt.Errorf("failed to load object %s: %w", h, err)
	}

	for {
		switch o := obj.(type) {
		case *object.Commit:
			return o, nil
		case *object.Tag:
			obj, err = object.GetObject(s, o.Target)
			if err != nil {
				return nil, fmt.Errorf("failed to peel tag %s: %w", o.Hash, err)
			}
		default:
			return nil, fmt.Errorf("%w: %s is a %s", ErrNotACommit, h, obj.Type())
		}
	}
}
