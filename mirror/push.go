package mirror

import "context"

// Push force-pushes all destination heads and tags to the remote. It is a
// configuration error to push without a destination url.
func (m *Mirror) Push(ctx context.Context) error {
	if m.config.Destination.Url == "" {
		return ErrNoDestination
	}

	return m.repos.PushDest(ctx)
}
