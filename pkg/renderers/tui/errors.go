package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrRejected is returned when the user declines the review step more
	// often than the configured attempt limit.
	ErrRejected = errors.New("tui: address not confirmed")
)
