package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gittransform "github.com/msg555/git-transform"
)

// Transform runs the full ref enumeration and chain replay over the local
// clones and records a stat per processed ref.
//
// A commit checkpointed as skipped is never re-evaluated, even if the
// pathspec, overlay or hook configuration changed since it was first
// decided.
func (m *Mirror) Transform(ctx context.Context) error {
	replayer, err := m.newReplayer()
	if err != nil {
		return err
	}

	results, err := replayer.ReplayAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, res := range results {
		stat := &RefStat{
			Ref:              res.Name.String(),
			LastSourceCommit: res.Tip.String(),
			Produced:         res.Produced,
			Skipped:          res.Skipped,
			UpdatedAt:        now,
		}
		if res.Head != gittransform.EmptyBaseline {
			stat.LastDestCommit = res.Head.String()
		}

		if err := m.db.PutRefStat(stat.Ref, stat); err != nil {
			return fmt.Errorf("failed to record stat for %s: %w", stat.Ref, err)
		}

		slog.Info("replayed ref",
			"ref", stat.Ref,
			"produced", res.Produced,
			"skipped", res.Skipped,
			"updated", res.Updated)
	}

	return m.db.Sync()
}

func (m *Mirror) newReplayer() (*gittransform.Replayer, error) {
	cfg := m.config

	spec, err := gittransform.NewPathSpec(cfg.Pathspecs...)
	if err != nil {
		return nil, err
	}

	var overlay gittransform.OverlayTree
	if cfg.OverlayDir != "" {
		overlay, err = gittransform.LoadOverlayDir(cfg.OverlayDir)
		if err != nil {
			return nil, err
		}
	}

	var hook gittransform.TransformHook
	if cfg.Hook != "" {
		hook = ExecHook(cfg.Hook)
	}

	return &gittransform.Replayer{
		Source: m.repos.Source.Storer,
		Dest:   m.repos.Dest.Storer,
		Store:  m.db.Checkpoints(),
		Stager: &gittransform.Stager{
			PathSpec: spec,
			Overlay:  overlay,
			Hook:     hook,
		},
		MaxDepth: cfg.MaxDepth,
	}, nil
}

// Run is the full mirror pass: sync, transform, push.
func (m *Mirror) Run(ctx context.Context) error {
	if err := m.Sync(ctx); err != nil {
		return err
	}
	if err := m.Transform(ctx); err != nil {
		return err
	}

	return m.Push(ctx)
}
