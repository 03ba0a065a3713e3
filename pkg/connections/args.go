package connections

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Mode selects what the session produces.
type Mode string

const (
	// ModeDefault links accounts and returns the session.
	ModeDefault Mode = "default"
	// ModeForToken additionally returns a bank account token.
	ModeForToken Mode = "for_token"
)

// ParseMode normalises raw into a Mode. Blank input yields ModeDefault.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeDefault:
		return ModeDefault, nil
	case ModeForToken, "fortoken", "for-token":
		return ModeForToken, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

// Configuration carries the credentials a session is started with.
type Configuration struct {
	SessionClientSecret string `json:"session_client_secret" yaml:"session_client_secret"`
	PublishableKey      string `json:"publishable_key" yaml:"publishable_key"`
	StripeAccountID     string `json:"stripe_account_id,omitempty" yaml:"stripe_account_id,omitempty"`
}

// Args is the input of a connections session.
type Args struct {
	Mode          Mode          `json:"mode,omitempty" yaml:"mode,omitempty"`
	Configuration Configuration `json:"configuration" yaml:"configuration"`
}

// Validate checks the configuration before a session is launched. The client
// secret is checked first.
func (a Args) Validate() error {
	if strings.TrimSpace(a.Configuration.SessionClientSecret) == "" {
		return ErrMissingClientSecret
	}
	if strings.TrimSpace(a.Configuration.PublishableKey) == "" {
		return ErrMissingPublishableKey
	}
	if _, err := ParseMode(string(a.Mode)); err != nil {
		return err
	}
	return nil
}

// DecodeArgs decodes a JSON payload into Args, defaults the mode, and
// validates the result.
func DecodeArgs(data []byte) (Args, error) {
	var args Args
	if err := json.Unmarshal(data, &args); err != nil {
		return Args{}, fmt.Errorf("%w: %v", ErrMalformedArgs, err)
	}
	mode, err := ParseMode(string(args.Mode))
	if err != nil {
		return Args{}, err
	}
	args.Mode = mode
	if err := args.Validate(); err != nil {
		return Args{}, err
	}
	return args, nil
}
