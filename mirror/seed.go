package mirror

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	gittransform "github.com/msg555/git-transform"
)

// seedDestination writes one commit holding only the overlay content on
// the default branch of a freshly created destination repository.
func (m *Mirror) seedDestination() error {
	overlay, err := gittransform.LoadOverlayDir(m.config.OverlayDir)
	if err != nil {
		return err
	}
	if len(overlay) == 0 {
		return nil
	}

	staging := memfs.New()
	if err := overlay.Apply(staging); err != nil {
		return err
	}

	s := m.repos.Dest.Storer

	tree, err := gittransform.BuildTree(staging, s)
	if err != nil {
		return err
	}

	now := time.Now()
	author := gittransform.Committer
	author.When = now

	seed := &object.Commit{
		TreeHash:  tree,
		Author:    author,
		Committer: author,
		Message:   "Seed overlay content\n",
	}

	obj := s.NewEncodedObject()
	if err := seed.Encode(obj); err != nil {
		return fmt.Errorf("failed to encode seed commit: %w", err)
	}
	hash, err := s.SetEncodedObject(obj)
	if err != nil {
		return fmt.Errorf("failed to save seed commit: %w", err)
	}

	branch := plumbing.NewBranchReferenceName(m.config.DefaultBranch)
	if err := s.SetReference(plumbing.NewHashReference(branch, hash)); err != nil {
		return fmt.Errorf("failed to set seed branch %s: %w", branch, err)
	}

	slog.Info("seeded destination with overlay", "branch", branch.String(), "commit", hash)

	return nil
}
