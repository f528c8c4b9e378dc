package gittransform

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/google/go-cmp/cmp"
)

func TestBuildTree_EntryOrderAndModes(t *testing.T) {
	fsys := memfs.New()
	for path, content := range map[string]string{
		"b.txt":     "b",
		"a/nested":  "n",
		"a.txt":     "a",
		"runner.sh": "#!/bin/sh\n",
	} {
		if err := util.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := fsys.Remove("runner.sh"); err != nil {
		t.Fatal(err)
	}
	if err := util.WriteFile(fsys, "runner.sh", []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := memory.NewStorage()

	root, err := BuildTree(fsys, s)
	if err != nil {
		t.Fatal(err)
	}

	tree, err := object.GetTree(s, root)
	if err != nil {
		t.Fatal(err)
	}

	// git orders tree entries with directories compared as "name/": the
	// directory "a" sorts after the file "a.txt".
	names := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"a.txt", "a", "b.txt", "runner.sh"}, names); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}

	for _, e := range tree.Entries {
		switch e.Name {
		case "runner.sh":
			if e.Mode != filemode.Executable {
				t.Fatalf("runner.sh mode = %s, want executable", e.Mode)
			}
		case "a":
			if e.Mode != filemode.Dir {
				t.Fatalf("a mode = %s, want dir", e.Mode)
			}
		default:
			if e.Mode != filemode.Regular {
				t.Fatalf("%s mode = %s, want regular", e.Name, e.Mode)
			}
		}
	}
}

func TestBuildTree_Deterministic(t *testing.T) {
	build := func() string {
		fsys := memfs.New()
		for path, content := range map[string]string{
			"z": "1", "m/x": "2", "m/y": "3", "a": "4",
		} {
			if err := util.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		root, err := BuildTree(fsys, memory.NewStorage())
		if err != nil {
			t.Fatal(err)
		}
		return root.String()
	}

	if first, second := build(), build(); first != second {
		t.Fatalf("tree hashes differ: %s vs %s", first, second)
	}
}

func TestBuildTree_EmptyWorktree(t *testing.T) {
	root, err := BuildTree(memfs.New(), memory.NewStorage())
	if err != nil {
		t.Fatal(err)
	}
	if root != emptyTreeHash {
		t.Fatalf("empty worktree tree = %s, want %s", root, emptyTreeHash)
	}
}

func TestBuildTree_IgnoresDotGit(t *testing.T) {
	fsys := memfs.New()
	for path, content := range map[string]string{
		"a.txt":       "a",
		".git/config": "bogus",
	} {
		if err := util.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := memory.NewStorage()
	root, err := BuildTree(fsys, s)
	if err != nil {
		t.Fatal(err)
	}

	tree, err := object.GetTree(s, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Entries) != 1 || tree.Entries[0].Name != "a.txt" {
		t.Fatalf("unexpected entries: %v", tree.Entries)
	}
}
