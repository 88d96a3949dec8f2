package domain

import "errors"

var (
	// ErrStoreUnavailable means the backing document store is unreachable or
	// the connection attempt failed. Every concurrent waiter on the same
	// connection attempt observes this error.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrAccountNotFound is returned only where an operation requires the
	// account to exist (password change). Plain lookups report absence as a
	// nil result, not an error.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSubmissionFailed wraps a failure in the delete-previous or
	// insert-new phase of a submit. The transaction guarantees no
	// partially-applied state is left behind.
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrRosterAborted means the roster transaction was rolled back; no
	// user's course set differs from before the call.
	ErrRosterAborted = errors.New("roster update aborted")
)
