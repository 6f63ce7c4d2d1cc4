package store

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the cache stores. Callers branch on these to
// render an appropriate message; the stores never retry and never touch the
// cache when returning one of them.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotFound               = errors.New("record not found")
	ErrUnauthorized           = errors.New("not authorized for this record")
	ErrValidationFailed       = errors.New("validation failed")
)

// RemoteError wraps a failed gateway call.
type RemoteError struct {
	Op         string
	Collection string
	Err        error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s on %s: %v", e.Op, e.Collection, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func remoteErr(op, collection string, err error) error {
	return &RemoteError{Op: op, Collection: collection, Err: err}
}
