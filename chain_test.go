package gittransform

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/go-cmp/cmp"
)

func TestResolveChain_FullLineage(t *testing.T) {
	b := newHistoryBuilder(t)

	c1 := b.commit("one\n", map[string]string{"a": "1"})
	c2 := b.commit("two\n", map[string]string{"a": "2"}, c1)
	c3 := b.commit("three\n", map[string]string{"a": "3"}, c2)

	chain, err := ResolveChain(context.Background(), NewMemoryCheckpoints(), b.get(c3), 0)
	if err != nil {
		t.Fatal(err)
	}

	if chain.Baseline != EmptyBaseline {
		t.Fatalf("baseline = %s, want empty", chain.Baseline)
	}

	want := []plumbing.Hash{c1, c2, c3}
	if diff := cmp.Diff(want, hashesOf(chain.Pending)); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveChain_StopsAtCheckpoint(t *testing.T) {
	b := newHistoryBuilder(t)

	c1 := b.commit("one\n", map[string]string{"a": "1"})
	c2 := b.commit("two\n", map[string]string{"a": "2"}, c1)
	c3 := b.commit("three\n", map[string]string{"a": "3"}, c2)

	d := MustDecodeHashHex("0102030405060708090a0b0c0d0e0f1011121314")

	store := NewMemoryCheckpoints()
	if err := store.Put(c2, d); err != nil {
		t.Fatal(err)
	}

	chain, err := ResolveChain(context.Background(), store, b.get(c3), 0)
	if err != nil {
		t.Fatal(err)
	}

	if chain.Baseline != d {
		t.Fatalf("baseline = %s, want %s", chain.Baseline, d)
	}
	if diff := cmp.Diff([]plumbing.Hash{c3}, hashesOf(chain.Pending)); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveChain_QuarantinedCheckpointStops(t *testing.T) {
	b := newHistoryBuilder(t)

	c1 := b.commit("one\n", map[string]string{"a": "1"})
	c2 := b.commit("two\n", map[string]string{"a": "2"}, c1)

	// a quarantined commit records the empty baseline; the walk must still
	// stop there instead of reprocessing it.
	store := NewMemoryCheckpoints()
	if err := store.Put(c1, EmptyBaseline); err != nil {
		t.Fatal(err)
	}

	chain, err := ResolveChain(context.Background(), store, b.get(c2), 0)
	if err != nil {
		t.Fatal(err)
	}

	if chain.Baseline != EmptyBaseline {
		t.Fatalf("baseline = %s, want empty", chain.Baseline)
	}
	if diff := cmp.Diff([]plumbing.Hash{c2}, hashesOf(chain.Pending)); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveChain_FirstParentOnly(t *testing.T) {
	b := newHistoryBuilder(t)

	c1 := b.commit("one\n", map[string]string{"a": "1"})
	side1 := b.commit("side one\n", map[string]string{"b": "1"}, c1)
	side2 := b.commit("side two\n", map[string]string{"b": "2"}, side1)
	c2 := b.commit("two\n", map[string]string{"a": "2"}, c1)
	merge := b.commit("merge side\n", map[string]string{"a": "2", "b": "2"}, c2, side2)

	chain, err := ResolveChain(context.Background(), NewMemoryCheckpoints(), b.get(merge), 0)
	if err != nil {
		t.Fatal(err)
	}

	want := []plumbing.Hash{c1, c2, merge}
	if diff := cmp.Diff(want, hashesOf(chain.Pending)); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}

	visited := NewHashSetFromCommits(chain.Pending)
	for _, h := range []plumbing.Hash{side1, side2} {
		if _, in := visited[h]; in {
			t.Fatalf("second-parent history commit %s appeared in chain", h)
		}
	}
}

func TestResolveChain_MaxDepth(t *testing.T) {
	b := newHistoryBuilder(t)

	c1 := b.commit("one\n", map[string]string{"a": "1"})
	c2 := b.commit("two\n", map[string]string{"a": "2"}, c1)
	c3 := b.commit("three\n", map[string]string{"a": "3"}, c2)

	chain, err := ResolveChain(context.Background(), NewMemoryCheckpoints(), b.get(c3), 2)
	if err != nil {
		t.Fatal(err)
	}

	if chain.Baseline != EmptyBaseline {
		t.Fatalf("baseline = %s, want empty", chain.Baseline)
	}
	if diff := cmp.Diff([]plumbing.Hash{c2, c3}, hashesOf(chain.Pending)); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveChain_Deterministic(t *testing.T) {
	b := newHistoryBuilder(t)

	c1 := b.commit("one\n", map[string]string{"a": "1"})
	c2 := b.commit("two\n", map[string]string{"a": "2"}, c1)

	store := NewMemoryCheckpoints()

	first, err := ResolveChain(context.Background(), store, b.get(c2), 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ResolveChain(context.Background(), store, b.get(c2), 0)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(hashesOf(first.Pending), hashesOf(second.Pending)); diff != "" {
		t.Fatalf("resolution is not deterministic (-first +second):\n%s", diff)
	}
	if first.Baseline != second.Baseline {
		t.Fatalf("baselines differ: %s vs %s", first.Baseline, second.Baseline)
	}
}

func TestResolveChain_NilInputs(t *testing.T) {
	b := newHistoryBuilder(t)
	c1 := b.commit("one\n", map[string]string{"a": "1"})

	if _, err := ResolveChain(context.Background(), nil, b.get(c1), 0); err != ErrNilCheckpointStore {
		t.Fatalf("err = %v, want ErrNilCheckpointStore", err)
	}
	if _, err := ResolveChain(context.Background(), NewMemoryCheckpoints(), nil, 0); err != ErrNilCommit {
		t.Fatalf("err = %v, want ErrNilCommit", err)
	}
}
