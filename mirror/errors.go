// errors

package mirror

import "errors"

var (
	ErrNoSource      = errors.New("no source repository configured")
	ErrNoDestination = errors.New("no destination repository configured")
	ErrNilDB         = errors.New("nil db")
	ErrNilConfig     = errors.New("nil config")
)
