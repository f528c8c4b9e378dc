package gittransform

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// OverlayFile is one entry of an [OverlayTree].
type OverlayFile struct {
	Content    []byte
	Executable bool
}

// OverlayTree is a fixed file set copied into every produced commit. It is
// applied after checkout, so on path conflicts the overlay content wins
// over the source content.
type OverlayTree map[string]OverlayFile

// LoadOverlay reads every regular file of fsys into an [OverlayTree]. Keys
// are slash separated paths relative to the filesystem root.
func LoadOverlay(fsys billy.Filesystem) (OverlayTree, error) {
	result := make(OverlayTree)

	err := util.Walk(fsys, ".", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open overlay file %s: %w", path, err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("failed to read overlay file %s: %w", path, err)
		}

		result[filepath.ToSlash(path)] = OverlayFile{
			Content:    content,
			Executable: info.Mode()&0o111 != 0,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// LoadOverlayDir loads an [OverlayTree] from a directory on disk.
func LoadOverlayDir(dir string) (OverlayTree, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("cannot read overlay directory: %w", err)
	}

	return LoadOverlay(osfs.New(dir))
}

// Apply writes the overlay into worktree, overwriting existing files.
func (o OverlayTree) Apply(worktree billy.Filesystem) error {
	for path, file := range o {
		perm := os.FileMode(0o644)
		if file.Executable {
			perm = 0o755
		}

		if err := util.WriteFile(worktree, path, file.Content, perm); err != nil {
			return fmt.Errorf("failed to write overlay file %s: %w", path, err)
		}
	}

	return nil
}
