package gittransform

import "github.com/go-git/go-git/v5/plumbing"

// EmptyBaseline is the sentinel destination for a lineage that has not
// produced any commit yet. A commit created on top of it has no parent.
var EmptyBaseline = plumbing.ZeroHash

// CheckpointStore records, for every visited source commit, the destination
// commit it produced, or the baseline it was quarantined on ([EmptyBaseline]
// when nothing was produced before it).
//
// Entries grow monotonically and are never recomputed: once a commit is
// checkpointed, later runs reuse the recorded outcome even if the pathspec,
// overlay or hook configuration has changed since. The store assumes a
// single writer process at a time.
type CheckpointStore interface {
	// Get returns the recorded destination for src, and whether a record
	// exists. [EmptyBaseline] is a valid recorded value.
	Get(src plumbing.Hash) (plumbing.Hash, bool, error)

	// Put records the destination for src, overwriting any previous record.
	Put(src, dst plumbing.Hash) error
}

// MemoryCheckpoints is an in-process [CheckpointStore] backed by a map.
type MemoryCheckpoints map[plumbing.Hash]plumbing.Hash

var _ CheckpointStore = MemoryCheckpoints(nil)

func NewMemoryCheckpoints() MemoryCheckpoints {
	return make(MemoryCheckpoints)
}

func (m MemoryCheckpoints) Get(src plumbing.Hash) (plumbing.Hash, bool, error) {
	dst, found := m[src]
	return dst, found, nil
}

func (m MemoryCheckpoints) Put(src, dst plumbing.Hash) error {
	m[src] = dst
	return nil
}
