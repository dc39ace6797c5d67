package interview

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C).
	ErrAborted = errors.New("interview: aborted")
	// ErrNoDocuments is returned when there is nothing to choose from.
	ErrNoDocuments = errors.New("interview: no document types to choose from")
)
