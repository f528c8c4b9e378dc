package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

const remotename = "origin"

var (
	headsRefSpec = config.RefSpec("+refs/heads/*:refs/heads/*")
	tagsRefSpec  = config.RefSpec("+refs/tags/*:refs/tags/*")
)

// Repos holds explicit handles to the local clones. Every repository
// operation receives one of these handles; nothing depends on a current
// working directory.
type Repos struct {
	Source *git.Repository
	Dest   *git.Repository

	// DestCreated reports whether the destination repository was created
	// fresh by this process, which triggers overlay seeding.
	DestCreated bool
}

// openRepos idempotently prepares the local source and destination clones.
func openRepos(cfg *Config) (*Repos, error) {
	src, _, err := openOrInit(cfg.Source.Path, cfg.Source.Url, cfg.DefaultBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare source clone: %w", err)
	}

	dst, created, err := openOrInit(cfg.Destination.Path, cfg.Destination.Url, cfg.DefaultBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare destination clone: %w", err)
	}

	return &Repos{Source: src, Dest: dst, DestCreated: created}, nil
}

// openOrInit opens the bare repository at path, creating it if absent, and
// makes sure the origin remote matches url.
func openOrInit(path string, url string, branch string) (*git.Repository, bool, error) {
	created := false

	r, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		slog.Info("creating local repository", "path", path)
		r, err = git.PlainInitWithOptions(path, &git.PlainInitOptions{
			Bare: true,
			InitOptions: git.InitOptions{
				DefaultBranch: plumbing.NewBranchReferenceName(branch),
			},
		})
		created = true
	}
	if err != nil {
		return nil, false, err
	}

	if url != "" {
		if err := ensureRemote(r, url); err != nil {
			return nil, false, err
		}
	}

	return r, created, nil
}

func ensureRemote(r *git.Repository, url string) error {
	_, err := r.Remote(remotename)
	if err == nil {
		return nil
	}
	if !errors.Is(err, git.ErrRemoteNotFound) {
		return err
	}

	_, err = r.CreateRemote(&config.RemoteConfig{
		Name:  remotename,
		URLs:  []string{url},
		Fetch: []config.RefSpec{headsRefSpec, tagsRefSpec},
	})

	return err
}

// FetchSource refreshes every head and tag of the local source clone from
// the remote, force-overwriting local refs. An empty remote is tolerated.
func (r *Repos) FetchSource(ctx context.Context) error {
	slog.Info("fetching source refs", "remote", remotename)

	err := r.Source.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remotename,
		RefSpecs:   []config.RefSpec{headsRefSpec, tagsRefSpec},
		Force:      true,
		Tags:       git.NoTags,
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Info("source already up to date")
		return nil
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		slog.Warn("empty source remote")
		return nil
	case err != nil:
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	return nil
}

// PushDest force-pushes every head and tag of the local destination clone
// to its remote.
func (r *Repos) PushDest(ctx context.Context) error {
	slog.Info("pushing destination refs", "remote", remotename)

	err := r.Dest.PushContext(ctx, &git.PushOptions{
		RemoteName: remotename,
		RefSpecs:   []config.RefSpec{headsRefSpec, tagsRefSpec},
		Force:      true,
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Info("destination already up to date")
		return nil
	case err != nil:
		return fmt.Errorf("failed to push destination: %w", err)
	}

	return nil
}
