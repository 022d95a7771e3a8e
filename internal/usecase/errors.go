package usecase

import "errors"

var (
	// ErrInvalidInput marks caller mistakes: malformed payloads, missing
	// required players, edits against sessions in the wrong status.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks lookups that resolve to nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks operations that collide with the current edit
	// state, such as beginning an edit while a commit is in flight.
	ErrConflict = errors.New("conflict")

	// ErrDependencyUnavailable marks failures of the league backend.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
