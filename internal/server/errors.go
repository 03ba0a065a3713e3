package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/bitmap"
	"github.com/goliatone/go-addressform/pkg/connections"
	"github.com/goliatone/go-addressform/pkg/render"
)

// StatusError pairs an error with the HTTP status it should be reported as.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error { return e.Err }

func statusErrorf(code int, format string, args ...any) error {
	return &StatusError{Code: code, Err: fmt.Errorf(format, args...)}
}

func statusFor(err error) int {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Code
	case errors.Is(err, address.ErrUnsupportedCountry):
		return http.StatusNotFound
	case errors.Is(err, bitmap.ErrSourceNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, render.ErrUnknownFormat):
		return http.StatusNotAcceptable
	case errors.Is(err, bitmap.ErrInvalidTarget),
		errors.Is(err, render.ErrThemeNotFound),
		errors.Is(err, connections.ErrMissingClientSecret),
		errors.Is(err, connections.ErrMissingPublishableKey),
		errors.Is(err, connections.ErrUnknownMode),
		errors.Is(err, connections.ErrMalformedArgs):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
