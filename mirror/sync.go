package mirror

import "context"

// Sync refreshes all source refs from the remote, force-overwriting local
// heads and tags.
func (m *Mirror) Sync(ctx context.Context) error {
	return m.repos.FetchSource(ctx)
}
