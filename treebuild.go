package gittransform

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// BuildTree writes the content of worktree into s as blob and tree objects
// and returns the hash of the root tree. Empty directories vanish, the
// executable bit and symlinks are preserved, and any entry named .git is
// ignored. The result only depends on the filesystem content, so repeated
// builds of the same tree yield the same hash.
func BuildTree(worktree billy.Filesystem, s storer.EncodedObjectStorer) (plumbing.Hash, error) {
	return buildTree(worktree, s, ".")
}

func buildTree(worktree billy.Filesystem, s storer.EncodedObjectStorer, dir string) (plumbing.Hash, error) {
	infos, err := worktree.ReadDir(dir)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to read staged directory %s: %w", dir, err)
	}

	entries := make([]object.TreeEntry, 0, len(infos))

	for _, info := range infos {
		name := info.Name()
		if name == ".git" {
			continue
		}
		full := path.Join(dir, name)

		switch {
		case info.IsDir():
			sub, err := buildTree(worktree, s, full)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			if sub == emptyTreeHash {
				continue
			}
			entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: sub})

		case info.Mode()&os.ModeSymlink != 0:
			target, err := worktree.Readlink(full)
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("failed to read staged symlink %s: %w", full, err)
			}
			blob, err := saveBlob(s, []byte(target))
			if err != nil {
				return plumbing.ZeroHash, err
			}
			entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Symlink, Hash: blob})

		case info.Mode().IsRegular():
			f, err := worktree.Open(full)
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("failed to open staged file %s: %w", full, err)
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("failed to read staged file %s: %w", full, err)
			}

			blob, err := saveBlob(s, content)
			if err != nil {
				return plumbing.ZeroHash, err
			}

			mode := filemode.Regular
			if info.Mode()&0o111 != 0 {
				mode = filemode.Executable
			}
			entries = append(entries, object.TreeEntry{Name: name, Mode: mode, Hash: blob})

		default:
			// sockets, devices and other oddities cannot live in a git tree.
			logger.Warn("skipping irregular staged file", "path", full, "mode", info.Mode().String())
		}
	}

	sortTreeEntries(entries)

	tree := &object.Tree{Entries: entries}

	obj := s.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree for %s: %w", dir, err)
	}

	return saveObject(s, obj)
}

// emptyTreeHash is the well known hash of the tree with no entries.
var emptyTreeHash = plumbing.NewHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904")

func saveBlob(s storer.EncodedObjectStorer, content []byte) (plumbing.Hash, error) {
	obj := s.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to open blob writer: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to close blob writer: %w", err)
	}

	return saveObject(s, obj)
}

func saveObject(s storer.EncodedObjectStorer, obj plumbing.EncodedObject) (plumbing.Hash, error) {
	hash, err := s.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to save %s object: %w", obj.Type(), err)
	}

	return hash, nil
}

// sortTreeEntries orders entries the way git serializes trees: byte order
// on names, with directory names compared as if they had a trailing slash.
func sortTreeEntries(entries []object.TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return treeEntrySortKey(entries[i]) < treeEntrySortKey(entries[j])
	})
}

func treeEntrySortKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}

	return e.Name
}
