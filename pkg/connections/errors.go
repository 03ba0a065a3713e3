package connections

import "errors"

var (
	// ErrMissingClientSecret is returned when the session client secret is blank.
	ErrMissingClientSecret = errors.New("connections: the session client secret cannot be an empty string")
	// ErrMissingPublishableKey is returned when the publishable key is blank.
	ErrMissingPublishableKey = errors.New("connections: the publishable key cannot be an empty string")
	// ErrUnknownMode is returned for a mode other than default or for_token.
	ErrUnknownMode = errors.New("connections: unknown mode")
	// ErrMalformedArgs wraps payloads that do not decode into Args.
	ErrMalformedArgs = errors.New("connections: malformed args")
	// ErrResultMissing marks a session that ended without reporting a result.
	ErrResultMissing = errors.New("connections: failed to retrieve a connections session result")
	// ErrResultMalformed marks a result payload that could not be decoded.
	ErrResultMalformed = errors.New("connections: malformed session result")
)
