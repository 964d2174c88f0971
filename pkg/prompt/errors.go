package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoDriver is returned by Fill when no driver is supplied.
	ErrNoDriver = errors.New("prompt: driver is required")
)
