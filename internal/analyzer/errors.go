package analyzer

import "errors"

var (
	// ErrNoActiveFile is returned when a request names no active document.
	ErrNoActiveFile = errors.New("no active file")

	// ErrPanic wraps a panic recovered at a rendering boundary.
	ErrPanic = errors.New("analysis panicked")
)
