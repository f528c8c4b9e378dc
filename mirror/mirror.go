package mirror

import (
	"fmt"
)

// Mirror owns the local clones and the checkpoint database for one
// configured source/destination pair.
type Mirror struct {
	config *Config

	db    *DB
	repos *Repos
}

// New validates the configuration and idempotently prepares the local
// clones and the database; this is the init every command performs first.
// A freshly created destination repository is seeded with the overlay
// content, when one is configured.
func New(cfg *Config) (*Mirror, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repos, err := openRepos(cfg)
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(cfg.DbPath)
	if err != nil {
		return nil, err
	}

	m := &Mirror{config: cfg, db: db, repos: repos}

	if repos.DestCreated && cfg.OverlayDir != "" {
		if err := m.seedDestination(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed destination with overlay: %w", err)
		}
	}

	return m, nil
}

func (m *Mirror) Close() error {
	return m.db.Close()
}
