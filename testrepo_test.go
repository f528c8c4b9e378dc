package gittransform

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// historyBuilder constructs source histories in an in-memory storage for
// tests.
type historyBuilder struct {
	t *testing.T
	s *memory.Storage

	clock time.Time
}

func newHistoryBuilder(t *testing.T) *historyBuilder {
	t.Helper()

	return &historyBuilder{
		t:     t,
		s:     memory.NewStorage(),
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *historyBuilder) commit(msg string, files map[string]string, parents ...plumbing.Hash) plumbing.Hash {
	b.t.Helper()

	fsys := memfs.New()
	for path, content := range files {
		if err := util.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			b.t.Fatal(err)
		}
	}

	tree, err := BuildTree(fsys, b.s)
	if err != nil {
		b.t.Fatal(err)
	}

	b.clock = b.clock.Add(time.Minute)
	sig := object.Signature{Name: "tester", Email: "tester@example.com", When: b.clock}

	c := &object.Commit{
		TreeHash:     tree,
		Author:       sig,
		Committer:    sig,
		Message:      msg,
		ParentHashes: parents,
	}

	obj := b.s.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		b.t.Fatal(err)
	}
	hash, err := b.s.SetEncodedObject(obj)
	if err != nil {
		b.t.Fatal(err)
	}

	return hash
}

func (b *historyBuilder) get(h plumbing.Hash) *object.Commit {
	b.t.Helper()

	c, err := object.GetCommit(b.s, h)
	if err != nil {
		b.t.Fatal(err)
	}

	return c
}

func (b *historyBuilder) branch(name string, tip plumbing.Hash) *plumbing.Reference {
	b.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), tip)
	if err := b.s.SetReference(ref); err != nil {
		b.t.Fatal(err)
	}

	return ref
}

func (b *historyBuilder) tag(name string, tip plumbing.Hash) *plumbing.Reference {
	b.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), tip)
	if err := b.s.SetReference(ref); err != nil {
		b.t.Fatal(err)
	}

	return ref
}

func hashesOf(commits []*object.Commit) []plumbing.Hash {
	result := make([]plumbing.Hash, 0, len(commits))
	for _, c := range commits {
		result = append(result, c.Hash)
	}

	return result
}
