// Package tui collects address values interactively in a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. Render
// prompts for every descriptor in order and serializes what was entered.
type Renderer struct {
	driver         PromptDriver
	outputFormat   OutputFormat
	reviewAttempts int
	theme          Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render collects values and serializes them in the configured format.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	fields := render.LocalizeWith(form.Fields, opts)
	values, err := r.collect(ctx, fields, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(fields, values)
}

// Collect prompts for every field and returns the entered values. Values in
// opts.Values become prompt defaults.
func (r *Renderer) Collect(ctx context.Context, form render.Form, opts render.RenderOptions) (address.FormValues, error) {
	return r.collect(ctx, render.LocalizeWith(form.Fields, opts), opts)
}

func (r *Renderer) collect(ctx context.Context, fields []address.FieldDescriptor, opts render.RenderOptions) (address.FormValues, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	values := make(address.FormValues, len(fields))
	for _, f := range fields {
		if v := opts.Values.Get(f.Identifier); v != "" {
			values[f.Identifier] = v
		}
	}

	if title := render.Title(opts); title != "" {
		if err := r.info(ctx, title); err != nil {
			return nil, err
		}
	}

	for attempt := 0; ; attempt++ {
		for _, f := range fields {
			if err := r.promptField(ctx, f, opts, values); err != nil {
				return nil, err
			}
		}
		if r.reviewAttempts <= 0 {
			return values, nil
		}

		if err := r.info(ctx, summary(fields, values)); err != nil {
			return nil, err
		}
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Use this address?", Default: true})
		if err != nil {
			return nil, err
		}
		if ok {
			return values, nil
		}
		if attempt+1 >= r.reviewAttempts {
			return nil, ErrRejected
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, f address.FieldDescriptor, opts render.RenderOptions, values address.FormValues) error {
	label := f.Label
	if f.ShowOptionalLabel {
		label = render.OptionalLabel(label, opts)
	}
	help := ""
	if len(f.Examples) > 0 {
		help = "e.g. " + strings.Join(f.Examples, ", ")
	}

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: values.Get(f.Identifier),
			Help:    help,
		})
		if err != nil {
			return err
		}
		response = strings.TrimSpace(response)
		if response == "" && f.Required {
			if err := r.errorf(ctx, "%s is required", label); err != nil {
				return err
			}
			continue
		}
		if response == "" {
			delete(values, f.Identifier)
		} else {
			values[f.Identifier] = response
		}
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(fields []address.FieldDescriptor, values address.FormValues) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for id, v := range values {
			form.Set(string(id), v)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(summary(fields, values)), nil
	default:
		payload, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return payload, nil
	}
}

func summary(fields []address.FieldDescriptor, values address.FormValues) string {
	var b strings.Builder
	for _, f := range fields {
		if v := values.Get(f.Identifier); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.Label, v)
		}
	}
	return b.String()
}
