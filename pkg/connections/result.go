package connections

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Status discriminates the result variants on the wire.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// Result is one of Completed, Canceled or Failed.
type Result interface {
	Status() Status
	isResult()
}

// Completed reports a finished session. TokenID is only set in
// ModeForToken.
type Completed struct {
	SessionID string
	TokenID   string
}

// Canceled reports that the user backed out of the session.
type Canceled struct{}

// Failed reports a session that ended with an error.
type Failed struct {
	Err error
}

func (Completed) Status() Status { return StatusCompleted }
func (Canceled) Status() Status  { return StatusCanceled }
func (Failed) Status() Status    { return StatusFailed }

func (Completed) isResult() {}
func (Canceled) isResult()  {}
func (Failed) isResult()    {}

func (f Failed) Error() string {
	if f.Err == nil {
		return ErrResultMissing.Error()
	}
	return f.Err.Error()
}

func (f Failed) Unwrap() error { return f.Err }

type wireResult struct {
	Status    Status `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	TokenID   string `json:"token_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EncodeResult serialises r with a status discriminator.
func EncodeResult(r Result) ([]byte, error) {
	var wire wireResult
	switch v := r.(type) {
	case Completed:
		wire = wireResult{Status: StatusCompleted, SessionID: v.SessionID, TokenID: v.TokenID}
	case *Completed:
		if v == nil {
			return nil, errNilResult(r)
		}
		wire = wireResult{Status: StatusCompleted, SessionID: v.SessionID, TokenID: v.TokenID}
	case Canceled, *Canceled:
		wire = wireResult{Status: StatusCanceled}
	case Failed:
		wire = wireResult{Status: StatusFailed, Error: v.Error()}
	case *Failed:
		if v == nil {
			return nil, errNilResult(r)
		}
		wire = wireResult{Status: StatusFailed, Error: v.Error()}
	default:
		return nil, fmt.Errorf("connections: unsupported result %T", r)
	}
	return json.Marshal(wire)
}

func errNilResult(r Result) error {
	return fmt.Errorf("%w: nil %T", ErrResultMissing, r)
}

// ParseResult decodes a payload written by EncodeResult. It never fails: an
// absent payload yields Failed wrapping ErrResultMissing and an unreadable
// one yields Failed wrapping ErrResultMalformed.
func ParseResult(data []byte) Result {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Failed{Err: ErrResultMissing}
	}

	var wire wireResult
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return Failed{Err: fmt.Errorf("%w: %v", ErrResultMalformed, err)}
	}

	switch wire.Status {
	case StatusCompleted:
		if wire.SessionID == "" {
			return Failed{Err: fmt.Errorf("%w: completed result without session id", ErrResultMalformed)}
		}
		return Completed{SessionID: wire.SessionID, TokenID: wire.TokenID}
	case StatusCanceled:
		return Canceled{}
	case StatusFailed:
		if wire.Error == "" {
			return Failed{Err: ErrResultMissing}
		}
		return Failed{Err: errors.New(wire.Error)}
	case "":
		return Failed{Err: ErrResultMissing}
	}
	return Failed{Err: fmt.Errorf("%w: unknown status %q", ErrResultMalformed, wire.Status)}
}
