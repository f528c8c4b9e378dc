// errors

package gittransform

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingPathspec indicates that the configured pathspec matched
	// nothing in a source commit. The commit is quarantined.
	ErrMissingPathspec = errors.New("pathspec matched no file in commit")

	// ErrHookRejected indicates that the transform hook reported failure
	// for a source commit. The commit is quarantined.
	ErrHookRejected = errors.New("transform hook rejected commit")

	ErrNilCheckpointStore = errors.New("nil checkpoint store")
	ErrNilCommit          = errors.New("nil commit")
	ErrNotACommit         = errors.New("reference does not point to a commit")
	ErrCommitGraphCycle   = errors.New("cycle in commit graph")
)

// IsSkip reports whether err is one of the two per-commit skip conditions.
// Every other error is fatal for the run.
func IsSkip(err error) bool {
	return errors.Is(err, ErrMissingPathspec) || errors.Is(err, ErrHookRejected)
}

// errorf wraps an error with fmt.Errorf, except for context cancellations,
// which are passed through unchanged.
func errorf(err error, format string, args ...any) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf(format, args...)
}
