package bitmap

import "errors"

var (
	// ErrDecode reports corrupt or unsupported image data.
	ErrDecode = errors.New("bitmap: decode failed")
	// ErrInvalidTarget reports a target box that is not positive.
	ErrInvalidTarget = errors.New("bitmap: invalid target size")
	// ErrTooLarge reports a source whose native size exceeds the decoder limit.
	ErrTooLarge = errors.New("bitmap: image too large")
	// ErrOpen reports a failure to open the image source.
	ErrOpen = errors.New("bitmap: open source failed")
	// ErrSourceNotAllowed reports a source rejected by opener policy.
	ErrSourceNotAllowed = errors.New("bitmap: source not allowed")
)
