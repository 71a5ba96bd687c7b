package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrRequired is returned by the validator of required fields.
	ErrRequired = errors.New("tui: a value is required")
)
